package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvVars = []string{
	"SERVER_HOST", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_USER",
	"DB_PASSWORD", "DB_NAME", "MONGO_URI", "MONGO_DB", "REDIS_ADDR",
	"KAFKA_ENABLED", "NOTIF_PAGE_SIZE", "NOTIF_RESYNC_INTERVAL",
	"MEDIA_BASE_URL", "JWT_SECRET", "TOKEN_EXPIRY_HOURS",
}

func clearTestEnvVars() {
	for _, key := range testEnvVars {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearTestEnvVars()
	defer clearTestEnvVars()

	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Email.Enabled)

	assert.Equal(t, 256, cfg.Notification.ChannelBufferSize)
	assert.Equal(t, 50, cfg.Notification.PageSize)
	assert.Equal(t, 60, cfg.Notification.ResyncInterval)

	assert.Equal(t, "http://localhost:8081/media/", cfg.Media.BaseURL)
	assert.Equal(t, 24, cfg.Auth.TokenExpiry)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearTestEnvVars()
	defer clearTestEnvVars()

	os.Setenv("SERVER_PORT", "9000")
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("KAFKA_ENABLED", "true")
	os.Setenv("NOTIF_PAGE_SIZE", "25")
	os.Setenv("TOKEN_EXPIRY_HOURS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, 25, cfg.Notification.PageSize)
	// unparsable ints fall back to the default
	assert.Equal(t, 24, cfg.Auth.TokenExpiry)
}

func TestDSN(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Username = "linkup_user"
	cfg.Database.Password = "secret"
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = "3307"
	cfg.Database.DatabaseName = "linkup_db"

	dsn := cfg.DSN()

	assert.Equal(t, "linkup_user:secret@tcp(db.internal:3307)/linkup_db?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}

func TestDSN_FillsMissingHostAndPort(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Username = "u"
	cfg.Database.DatabaseName = "d"

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "@tcp(localhost:3306)/d")
}
