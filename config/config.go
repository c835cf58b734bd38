package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting read from the environment.
type Config struct {
	HTTPHost string `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"5000" validate:"min=1,max=65535"`
	GinDebug bool   `envconfig:"GIN_DEBUG" default:"false"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"mongo" validate:"oneof=mongo postgres memory"`

	// MongoURI, when set, wins over the individual host settings.
	MongoURIOverride string        `envconfig:"MONGO_URI"`
	MongoHost        string        `envconfig:"MONGO_HOST" default:"localhost"`
	MongoPort        int           `envconfig:"MONGO_PORT" default:"27017" validate:"min=1,max=65535"`
	MongoUser        string        `envconfig:"MONGO_USER"`
	MongoPassword    string        `envconfig:"MONGO_PASSWORD"`
	MongoDatabase    string        `envconfig:"MONGO_DATABASE" default:"papersearch" validate:"required"`
	MongoCollection  string        `envconfig:"MONGO_COLLECTION" default:"papers" validate:"required"`
	MongoTimeout     time.Duration `envconfig:"MONGO_TIMEOUT" default:"10s"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432" validate:"min=1,max=65535"`
	DBUser     string `envconfig:"DB_USER" validate:"required_if=StoreDriver postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" validate:"required_if=StoreDriver postgres"`
	DBTable    string `envconfig:"DB_TABLE" default:"papers" validate:"required"`

	// JSON-lines file (optionally .gz) loaded by the memory driver.
	MemorySeedFile string `envconfig:"MEMORY_SEED_FILE"`

	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json console"`
	LogFile   string `envconfig:"LOG_FILE"`

	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"0" validate:"min=0"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"20" validate:"min=1"`

	// Empty disables the periodic store probe.
	ProbeSchedule string `envconfig:"PROBE_SCHEDULE" default:"@every 1m"`
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// MongoURI returns the connection string for the document store.
func (c *Config) MongoURI() string {
	if c.MongoURIOverride != "" {
		return c.MongoURIOverride
	}
	if c.MongoUser != "" && c.MongoPassword != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%d/%s?authSource=admin",
			url.QueryEscape(c.MongoUser), url.QueryEscape(c.MongoPassword),
			c.MongoHost, c.MongoPort, c.MongoDatabase)
	}
	return fmt.Sprintf("mongodb://%s:%d/%s", c.MongoHost, c.MongoPort, c.MongoDatabase)
}

// DSN returns the data source name for the PostgreSQL connection.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// AllowedOrigins splits CORS_ORIGINS, dropping blanks.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load reads the configuration from the environment (and an optional .env file).
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
