package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"jp_storefront/internal/apperr"

	"github.com/redis/go-redis/v9"
)

const (
	CartTTL = 24 * time.Hour

	maxUpdateRetries = 5
)

// Store keeps one cart per guest session under cart:<session id>. The TTL
// slides on every write and read.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, ttl: CartTTL}
}

func key(sessionID string) string {
	return "cart:" + sessionID
}

func decode(data []byte) (*Cart, error) {
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load returns the session's cart; an unknown session yields an empty cart.
func (s *Store) Load(ctx context.Context, sessionID string) (*Cart, error) {
	data, err := s.rdb.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, apperr.Persistence("load cart", err)
	}
	c, err := decode(data)
	if err != nil {
		return nil, apperr.Persistence("decode cart", err)
	}
	s.rdb.Expire(ctx, key(sessionID), s.ttl)
	return c, nil
}

// Save replaces the session's cart. An empty cart deletes the key.
func (s *Store) Save(ctx context.Context, sessionID string, c *Cart) error {
	if c.Empty() {
		return s.Delete(ctx, sessionID)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return apperr.Persistence("encode cart", err)
	}
	return apperr.Persistence("save cart", s.rdb.Set(ctx, key(sessionID), data, s.ttl).Err())
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return apperr.Persistence("delete cart", s.rdb.Del(ctx, key(sessionID)).Err())
}

// Update applies fn to the session's cart inside a WATCH/MULTI transaction
// and retries when another request changed the cart in between. An error
// from fn aborts without writing and is returned as is.
func (s *Store) Update(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error) {
	k := key(sessionID)
	var result *Cart
	var fnErr error

	txf := func(tx *redis.Tx) error {
		c := &Cart{}
		data, err := tx.Get(ctx, k).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if c, err = decode(data); err != nil {
				return err
			}
		}

		if fnErr = fn(c); fnErr != nil {
			return fnErr
		}

		var payload []byte
		if !c.Empty() {
			if payload, err = json.Marshal(c); err != nil {
				return err
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if payload == nil {
				pipe.Del(ctx, k)
			} else {
				pipe.Set(ctx, k, payload, s.ttl)
			}
			return nil
		})
		if err == nil {
			result = c
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		fnErr = nil
		err := s.rdb.Watch(ctx, txf, k)
		if fnErr != nil {
			return nil, fnErr
		}
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, apperr.Persistence("update cart", err)
		}
	}
	return nil, apperr.Persistence("update cart", redis.TxFailedErr)
}
