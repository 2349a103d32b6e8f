package repository

import (
	"context"
	"errors"

	"jp_storefront/internal/apperr"

	"github.com/gocql/gocql"
)

// Scylla is the Store backed by a single gocql session. Tables are
// described in scripts/scylladb_init.cql.
type Scylla struct {
	session *gocql.Session
}

func NewScylla(session *gocql.Session) *Scylla {
	return &Scylla{session: session}
}

var _ Store = (*Scylla)(nil)

func (s *Scylla) query(ctx context.Context, stmt string, args ...interface{}) *gocql.Query {
	return s.session.Query(stmt, args...).WithContext(ctx)
}

// scanErr maps gocql's not-found to the domain sentinel and wraps the rest.
func scanErr(op string, err error) error {
	if errors.Is(err, gocql.ErrNotFound) {
		return apperr.ErrNotFound
	}
	return apperr.Persistence(op, err)
}

// cas runs a lightweight transaction and reports whether it applied.
func (s *Scylla) cas(ctx context.Context, stmt string, args ...interface{}) (bool, error) {
	return s.query(ctx, stmt, args...).MapScanCAS(make(map[string]interface{}))
}
