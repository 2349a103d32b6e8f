// Package search finds storefront products through Elasticsearch, with a
// substring fallback over the catalog when the cluster is absent or failing.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"jp_storefront/internal/catalog"
	"jp_storefront/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"
)

const (
	IndexName  = "products"
	maxResults = 50
)

// ProductLister is the catalog read the results are resolved against.
type ProductLister interface {
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
}

type Service struct {
	es      *elasticsearch.Client
	catalog ProductLister
}

// NewService works with a nil client, in which case every search is the
// substring fallback and indexing is a no-op.
func NewService(es *elasticsearch.Client, products ProductLister) *Service {
	return &Service{es: es, catalog: products}
}

func (s *Service) Enabled() bool { return s.es != nil }

// document is the indexed shape of a product.
type document struct {
	Name          string `json:"name"`
	NameTA        string `json:"name_ta,omitempty"`
	Description   string `json:"description,omitempty"`
	DescriptionTA string `json:"description_ta,omitempty"`
	InStock       bool   `json:"in_stock"`
}

// IndexProduct writes p to the index, refreshing so it is searchable at once.
func (s *Service) IndexProduct(ctx context.Context, p models.Product) error {
	if s.es == nil {
		return nil
	}
	data, err := json.Marshal(document{
		Name:          p.Name,
		NameTA:        p.NameTA,
		Description:   p.Description,
		DescriptionTA: p.DescriptionTA,
		InStock:       p.InStock,
	})
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      IndexName,
		DocumentID: p.ID.String(),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return fmt.Errorf("index product %s: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product %s: %s", p.ID, res.String())
	}
	log.Debug().Str("product_id", p.ID.String()).Msg("✅ Product indexed")
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id gocql.UUID) error {
	if s.es == nil {
		return nil
	}
	req := esapi.DeleteRequest{Index: IndexName, DocumentID: id.String(), Refresh: "true"}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete product %s: %s", id, res.String())
	}
	return nil
}

// Reindex pushes the whole catalog, used at start-up so the index catches
// up with edits made while the cluster was away.
func (s *Service) Reindex(ctx context.Context) error {
	if s.es == nil {
		return nil
	}
	products, err := s.catalog.ListProducts(ctx, models.ProductFilter{})
	if err != nil {
		return err
	}
	for _, p := range products {
		if err := s.IndexProduct(ctx, p); err != nil {
			return err
		}
	}
	log.Info().Int("products", len(products)).Msg("✅ Search index rebuilt")
	return nil
}

// Search returns in-stock products matching q, best match first.
func (s *Service) Search(ctx context.Context, q string) ([]models.Product, error) {
	q = strings.TrimSpace(q)
	inStock := true
	products, err := s.catalog.ListProducts(ctx, models.ProductFilter{InStock: &inStock})
	if err != nil {
		return nil, err
	}
	if q == "" {
		return products, nil
	}

	if s.es != nil {
		ids, err := s.query(ctx, q)
		if err == nil {
			return resolve(ids, products), nil
		}
		log.Warn().Err(err).Msg("⚠️ Elasticsearch search failed, using substring matching")
	}
	return catalog.Filter(products, q), nil
}

func (s *Service) query(ctx context.Context, q string) ([]string, error) {
	var buf bytes.Buffer
	body := map[string]interface{}{
		"size": maxResults,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  q,
						"type":   "phrase_prefix",
						"fields": []string{"name^3", "name_ta^2", "description", "description_ta"},
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"in_stock": true},
				},
			},
		},
		"_source": false,
	}
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{Index: []string{IndexName}, Body: &buf}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	ids := make([]string, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

// resolve maps hit ids back to catalog products, keeping hit order and
// dropping ids the catalog no longer lists.
func resolve(ids []string, products []models.Product) []models.Product {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID.String()] = p
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
