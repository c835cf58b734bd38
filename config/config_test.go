package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	assert.Equal(t, "papers", cfg.MongoCollection)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "@every 1m", cfg.ProbeSchedule)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.AllowedOrigins())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown driver", "STORE_DRIVER", "sqlite"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"port out of range", "HTTP_PORT", "70000"},
		{"negative rate", "RATE_LIMIT_RPS", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORE_DRIVER", "memory")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestPostgresRequiresCredentials(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestMongoURI(t *testing.T) {
	t.Run("override wins", func(t *testing.T) {
		c := Config{MongoURIOverride: "mongodb://example:1/x", MongoHost: "ignored"}
		assert.Equal(t, "mongodb://example:1/x", c.MongoURI())
	})

	t.Run("credentials are escaped", func(t *testing.T) {
		c := Config{MongoHost: "db", MongoPort: 27017, MongoDatabase: "papersearch", MongoUser: "reader", MongoPassword: "@p:ss"}
		assert.Equal(t, "mongodb://reader:%40p%3Ass@db:27017/papersearch?authSource=admin", c.MongoURI())
	})

	t.Run("anonymous", func(t *testing.T) {
		c := Config{MongoHost: "localhost", MongoPort: 27017, MongoDatabase: "papersearch"}
		assert.Equal(t, "mongodb://localhost:27017/papersearch", c.MongoURI())
	})
}

func TestAllowedOriginsDropsBlanks(t *testing.T) {
	c := Config{CORSOrigins: " https://a.example , ,https://b.example,"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins())
}
