package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("NOTIFY_TIMEOUT", "")
	t.Setenv("STORE_BACKEND", "")

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendScylla, cfg.StoreBackend)
	assert.Equal(t, 15*time.Second, cfg.NotifyTimeout)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, cfg.JWTSecret, cfg.SessionSecret)
}

func TestFromEnvParsesLists(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("ADMIN_EMAILS", "Owner@JPVegetables.com , staff@jpvegetables.com")
	t.Setenv("STORE_BACKEND", "Memory")

	cfg := FromEnv()
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.True(t, cfg.MemoryBackend())
	assert.True(t, cfg.IsAdminEmail("owner@jpvegetables.com"))
	assert.True(t, cfg.IsAdminEmail(" STAFF@jpvegetables.com"))
	assert.False(t, cfg.IsAdminEmail("someone@else.com"))
}

func TestNotifyTimeout(t *testing.T) {
	t.Setenv("NOTIFY_TIMEOUT", "20s")
	assert.Equal(t, 20*time.Second, FromEnv().NotifyTimeout)

	t.Setenv("NOTIFY_TIMEOUT", "5")
	assert.Equal(t, 5*time.Second, FromEnv().NotifyTimeout)

	t.Setenv("NOTIFY_TIMEOUT", "soon")
	assert.Equal(t, 15*time.Second, FromEnv().NotifyTimeout)
}
