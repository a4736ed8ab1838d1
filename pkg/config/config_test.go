package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("GS_TEST_STR", "")
	t.Setenv("GS_TEST_INT", "not-a-number")
	t.Setenv("GS_TEST_DUR", "90m")

	assert.Equal(t, "fallback", EnvDefault("GS_TEST_STR", "fallback"))
	assert.Equal(t, 42, EnvIntDefault("GS_TEST_INT", 42))
	assert.Equal(t, 90*time.Minute, EnvDurationDefault("GS_TEST_DUR", time.Hour))
	assert.Equal(t, time.Hour, EnvDurationDefault("GS_TEST_MISSING", time.Hour))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("PUBLIC_URL", "https://shop.example.com/")

	cfg := FromEnv()
	assert.Equal(t, StorageSQLite, cfg.StorageDriver)
	assert.Equal(t, []byte("secret"), cfg.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "https://shop.example.com", cfg.PublicURL)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "no secret", cfg: Config{StorageDriver: StorageFile, DataDir: "d"}},
		{name: "postgres without dsn", cfg: Config{JWTSecret: []byte("s"), StorageDriver: StoragePostgres}},
		{name: "unknown driver", cfg: Config{JWTSecret: []byte("s"), StorageDriver: "mongo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}
