package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Kharcha"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"kharcha"`
	}

	Auth struct {
		JWTSecret  string        `envconfig:"JWT_SECRET" default:"dev-only-secret"`
		AccessTTL  time.Duration `envconfig:"JWT_ACCESS_TTL" default:"15m"`
		RefreshTTL time.Duration `envconfig:"JWT_REFRESH_TTL" default:"720h"`
	}

	Client struct {
		APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:8080"`
		Timeout    time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
		StatePath  string        `envconfig:"STATE_PATH" default:""`

		// Whole-account monthly ceiling in rupees, used until the user
		// sets their own.
		DefaultMonthlyLimit int64 `envconfig:"DEFAULT_MONTHLY_LIMIT" default:"50000"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// DefaultMonthlyLimitPaise converts the configured rupee ceiling.
func (c *Config) DefaultMonthlyLimitPaise() int64 {
	return c.Client.DefaultMonthlyLimit * 100
}

func Load() (*Config, error) {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
