package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnv_Defaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "8080", cfg.Server.HTTPPort)
	assert.Equal(t, 20*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 30*24*time.Hour, cfg.Cart.TTL)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreDriverMemory)
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CART_TTL", "2h")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

	cfg := LoadEnv()

	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Hour, cfg.Cart.TTL)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 20*time.Second, cfg.Server.ShutdownTimeout, "bad values fall back")
}

func TestLoadEnv_EmptyBrokersDisablesKafka(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	assert.Empty(t, LoadEnv().Kafka.Brokers)
}
