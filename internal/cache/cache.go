// Package cache puts Redis in front of the read-heavy storefront queries.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"jp_storefront/internal/models"
	"jp_storefront/internal/repository"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	ProductCacheTTL  = 10 * time.Minute
	CategoryCacheTTL = 30 * time.Minute
	SettingsCacheTTL = 5 * time.Minute

	productsPrefix = "products:"
	categoriesKey  = "categories:all"
	settingsKey    = "settings:all"
)

// Store decorates a repository.Store with read-through caching of product
// lists, categories and settings. Every mutation through it invalidates
// the affected keys.
type Store struct {
	repository.Store
	rdb *redis.Client
}

func NewStore(inner repository.Store, rdb *redis.Client) *Store {
	return &Store{Store: inner, rdb: rdb}
}

func productsKey(f models.ProductFilter) string {
	part := func(b *bool) string {
		if b == nil {
			return "-"
		}
		return strconv.FormatBool(*b)
	}
	cat := "-"
	if f.CategoryID != nil {
		cat = f.CategoryID.String()
	}
	return fmt.Sprintf("%sstock=%s:cat=%s:best=%s:offer=%s:name=%t:limit=%d",
		productsPrefix, part(f.InStock), cat, part(f.BestSeller), part(f.Offer), f.SortByName, f.Limit)
}

// readThrough returns the cached value at key or loads, stores and returns
// it. Redis failures degrade to a direct load.
func readThrough[T any](ctx context.Context, rdb *redis.Client, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if data, err := rdb.Get(ctx, key).Bytes(); err == nil {
		var cached T
		if json.Unmarshal(data, &cached) == nil {
			return cached, nil
		}
	} else if err != redis.Nil {
		log.Warn().Err(err).Str("key", key).Msg("⚠️ Cache read failed")
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if data, err := json.Marshal(v); err == nil {
		if err := rdb.Set(ctx, key, data, ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("⚠️ Cache write failed")
		}
	}
	return v, nil
}

func (s *Store) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	return readThrough(ctx, s.rdb, productsKey(filter), ProductCacheTTL, func() ([]models.Product, error) {
		return s.Store.ListProducts(ctx, filter)
	})
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	return readThrough(ctx, s.rdb, categoriesKey, CategoryCacheTTL, func() ([]models.Category, error) {
		return s.Store.ListCategories(ctx)
	})
}

func (s *Store) GetSettings(ctx context.Context) (map[string]string, error) {
	return readThrough(ctx, s.rdb, settingsKey, SettingsCacheTTL, func() (map[string]string, error) {
		return s.Store.GetSettings(ctx)
	})
}

// InvalidateProducts drops every cached product list.
func (s *Store) InvalidateProducts(ctx context.Context) {
	iter := s.rdb.Scan(ctx, 0, productsPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		s.rdb.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Msg("⚠️ Product cache invalidation failed")
	}
}

func (s *Store) invalidate(ctx context.Context, keys ...string) {
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("⚠️ Cache invalidation failed")
	}
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := s.Store.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.InvalidateProducts(ctx)
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, id gocql.UUID, patch models.ProductPatch) (*models.Product, error) {
	p, err := s.Store.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.InvalidateProducts(ctx)
	return p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id gocql.UUID) error {
	if err := s.Store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.InvalidateProducts(ctx)
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	if err := s.Store.CreateCategory(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx, categoriesKey)
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, id gocql.UUID, patch models.CategoryPatch) (*models.Category, error) {
	c, err := s.Store.UpdateCategory(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, categoriesKey)
	return c, nil
}

// DeleteCategory also drops product lists, which may be filtered by it.
func (s *Store) DeleteCategory(ctx context.Context, id gocql.UUID) error {
	if err := s.Store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, categoriesKey)
	s.InvalidateProducts(ctx)
	return nil
}

func (s *Store) UpsertSettings(ctx context.Context, values map[string]string) error {
	if err := s.Store.UpsertSettings(ctx, values); err != nil {
		return err
	}
	s.invalidate(ctx, settingsKey)
	return nil
}
