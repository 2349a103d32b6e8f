package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"jp_storefront/internal/models"
	"jp_storefront/internal/repository"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) (*repository.Memory, map[string]models.Product) {
	t.Helper()
	store := repository.NewMemory()
	byName := map[string]models.Product{}
	for i, p := range []models.Product{
		{Name: "Tomato", NameTA: "தக்காளி", Price: 40, InStock: true},
		{Name: "Potato", NameTA: "உருளைக்கிழங்கு", Price: 30, InStock: true},
		{Name: "Green Tomato", Price: 50, InStock: false},
	} {
		p.CreatedAt = time.Date(2025, 1, 1, 0, 0, i, 0, time.UTC)
		require.NoError(t, store.CreateProduct(context.Background(), &p))
		byName[p.Name] = p
	}
	return store, byName
}

func TestSearchFallbackWithoutElastic(t *testing.T) {
	store, _ := seed(t)
	svc := NewService(nil, store)
	assert.False(t, svc.Enabled())

	got, err := svc.Search(context.Background(), "TOMATO")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tomato", got[0].Name)

	got, err = svc.Search(context.Background(), "உருளை")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Potato", got[0].Name)

	got, err = svc.Search(context.Background(), "  ")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	assert.NoError(t, svc.IndexProduct(context.Background(), got[0]))
}

type fakeElastic struct {
	mu      sync.Mutex
	indexed map[string]document
	hits    []string
	fail    bool
}

func (f *fakeElastic) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case strings.HasSuffix(r.URL.Path, "/_search"):
		if f.fail {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"unavailable"}`)
			return
		}
		hits := make([]map[string]string, 0, len(f.hits))
		for _, id := range f.hits {
			hits = append(hits, map[string]string{"_id": id})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"hits": map[string]interface{}{"hits": hits}})
	case strings.HasPrefix(r.URL.Path, "/"+IndexName+"/_doc/"):
		id := strings.TrimPrefix(r.URL.Path, "/"+IndexName+"/_doc/")
		if r.Method == http.MethodDelete {
			delete(f.indexed, id)
			_, _ = io.WriteString(w, `{"result":"deleted"}`)
			return
		}
		var doc document
		_ = json.NewDecoder(r.Body).Decode(&doc)
		f.indexed[id] = doc
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	default:
		_, _ = io.WriteString(w, `{}`)
	}
}

func newElastic(t *testing.T, fake *fakeElastic) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestSearchUsesElasticRanking(t *testing.T) {
	store, byName := seed(t)
	fake := &fakeElastic{indexed: map[string]document{}}
	fake.hits = []string{
		byName["Potato"].ID.String(),
		gocql.TimeUUID().String(),
		byName["Green Tomato"].ID.String(),
		byName["Tomato"].ID.String(),
	}
	svc := NewService(newElastic(t, fake), store)

	got, err := svc.Search(context.Background(), "to")
	require.NoError(t, err)
	require.Len(t, got, 2, "unknown and out-of-stock hits are dropped")
	assert.Equal(t, "Potato", got[0].Name)
	assert.Equal(t, "Tomato", got[1].Name)
}

func TestSearchFallsBackWhenElasticFails(t *testing.T) {
	store, _ := seed(t)
	fake := &fakeElastic{indexed: map[string]document{}, fail: true}
	svc := NewService(newElastic(t, fake), store)

	got, err := svc.Search(context.Background(), "potato")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Potato", got[0].Name)
}

func TestIndexAndDelete(t *testing.T) {
	store, byName := seed(t)
	fake := &fakeElastic{indexed: map[string]document{}}
	svc := NewService(newElastic(t, fake), store)

	require.NoError(t, svc.Reindex(context.Background()))
	assert.Len(t, fake.indexed, 3)
	assert.Equal(t, "தக்காளி", fake.indexed[byName["Tomato"].ID.String()].NameTA)

	require.NoError(t, svc.DeleteProduct(context.Background(), byName["Tomato"].ID))
	assert.Len(t, fake.indexed, 2)
}
