package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jp_storefront/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Clients bundles every backing connection. Optional ones stay nil when
// their configuration is absent.
type Clients struct {
	Scylla  *gocql.Session
	Redis   *redis.Client
	Elastic *elasticsearch.Client
	MinIO   *minio.Client
}

// Connect opens every configured backend. Scylla is skipped for the memory
// backend; Redis is always required.
func Connect(ctx context.Context, cfg *config.Config) (*Clients, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	c := &Clients{}

	if !cfg.MemoryBackend() {
		session, err := ConnectScylla(cfg)
		if err != nil {
			return nil, fmt.Errorf("scylla: %w", err)
		}
		c.Scylla = session
	}

	rdb, err := ConnectRedis(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	c.Redis = rdb

	if cfg.ElasticEnabled() {
		es, err := connectElastic(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("⚠️  Elasticsearch unavailable, search falls back to substring matching")
		} else {
			c.Elastic = es
		}
	}

	if cfg.MinIOEnabled() {
		mc, err := connectMinIO(ctx, cfg)
		if err != nil {
			log.Warn().Err(err).Msg("⚠️  MinIO unavailable, image upload disabled")
		} else {
			c.MinIO = mc
		}
	}

	log.Info().Msg("✅ Backends connected")
	return c, nil
}

func (c *Clients) Close() {
	if c.Scylla != nil {
		c.Scylla.Close()
		log.Info().Msg("🔌 ScyllaDB session closed")
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

// ConnectScylla opens a session on the configured keyspace.
func ConnectScylla(cfg *config.Config) (*gocql.Session, error) {
	cluster := gocql.NewCluster(cfg.ScyllaHosts...)
	cluster.Keyspace = cfg.ScyllaKeyspace
	cluster.Consistency = parseConsistency(cfg.ScyllaConsistency)
	cluster.Timeout = 5 * time.Second
	cluster.NumConns = 20
	cluster.MaxWaitSchemaAgreement = 30 * time.Second
	cluster.ReconnectInterval = 1 * time.Second
	if cfg.ScyllaUsername != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.ScyllaUsername,
			Password: cfg.ScyllaPassword,
		}
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("create session for %s: %w", cfg.ScyllaKeyspace, err)
	}
	log.Info().Str("keyspace", cfg.ScyllaKeyspace).Msg("✅ ScyllaDB session opened")
	return session, nil
}

func parseConsistency(name string) gocql.Consistency {
	switch strings.ToUpper(name) {
	case "ONE":
		return gocql.One
	case "LOCAL_ONE":
		return gocql.LocalOne
	case "LOCAL_QUORUM":
		return gocql.LocalQuorum
	case "ALL":
		return gocql.All
	default:
		return gocql.Quorum
	}
}

func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	log.Info().Str("addr", cfg.RedisHost).Msg("✅ Connected to Redis")
	return rdb, nil
}

func connectElastic(cfg *config.Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		return nil, err
	}

	res, err := client.Info()
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("info: %s", res.Status())
	}

	log.Info().Msg("✅ Connected to Elasticsearch")
	return client, nil
}

func connectMinIO(ctx context.Context, cfg *config.Config) (*minio.Client, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		log.Info().Str("bucket", cfg.MinIOBucket).Msg("🪣 Bucket created")
	}

	log.Info().Str("endpoint", cfg.MinIOEndpoint).Msg("✅ Connected to MinIO")
	return client, nil
}
