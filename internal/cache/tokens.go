package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Tokens keeps short-lived auth state in Redis: revoked JWT ids, password
// reset tokens and rate-limit counters.
type Tokens struct {
	rdb *redis.Client
}

func NewTokens(rdb *redis.Client) *Tokens {
	return &Tokens{rdb: rdb}
}

// --- JWT blacklist (revocation before expiry) ---

func (t *Tokens) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return t.rdb.Set(ctx, "blacklist:"+tokenID, "revoked", ttl).Err()
}

// IsTokenBlacklisted fails open on Redis errors, like the rest of the cache.
func (t *Tokens) IsTokenBlacklisted(ctx context.Context, tokenID string) bool {
	n, err := t.rdb.Exists(ctx, "blacklist:"+tokenID).Result()
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Blacklist check failed")
		return false
	}
	return n > 0
}

// --- password reset ---

func (t *Tokens) StoreResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	return t.rdb.Set(ctx, "password_reset:"+token, userID, ttl).Err()
}

// ConsumeResetToken returns the user id bound to token and deletes it, so a
// token works once.
func (t *Tokens) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	userID, err := t.rdb.GetDel(ctx, "password_reset:"+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	return userID, err
}

var ErrTokenNotFound = errors.New("token not found or expired")

// --- rate limiting ---

// IncrementRateLimit bumps the counter at key, starting its window on the
// first hit.
func (t *Tokens) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := t.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := t.rdb.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (t *Tokens) GetRateLimit(ctx context.Context, key string) (int64, error) {
	val, err := t.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return val, err
}

func (t *Tokens) ResetRateLimit(ctx context.Context, key string) error {
	return t.rdb.Del(ctx, key).Err()
}

func (t *Tokens) RateLimitTTL(ctx context.Context, key string) time.Duration {
	ttl, err := t.rdb.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}

func LoginAttemptsKey(email string) string {
	return fmt.Sprintf("login_attempts:%s", email)
}
