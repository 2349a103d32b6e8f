package repository

import (
	"context"
	"time"

	"jp_storefront/internal/apperr"

	"github.com/gocql/gocql"
)

func (s *Scylla) GetSettings(ctx context.Context) (map[string]string, error) {
	iter := s.query(ctx, `SELECT key, value FROM settings`).Iter()

	out := make(map[string]string)
	var k, v string
	for iter.Scan(&k, &v) {
		out[k] = v
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Persistence("get settings", err)
	}
	return out, nil
}

func (s *Scylla) UpsertSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	now := time.Now()
	batch := s.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	for k, v := range values {
		batch.Query(`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)`, k, v, now)
	}
	return apperr.Persistence("upsert settings", s.session.ExecuteBatch(batch))
}
