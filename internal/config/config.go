package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DevSessionSecret is the SESSION_SECRET default. It is only fit for local
// development.
const DevSessionSecret = "finboard-dev-secret"

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Finboard"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Server struct {
		Timeout         time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	}

	Session struct {
		TTL           time.Duration `envconfig:"SESSION_TTL" default:"24h"`
		SweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"1h"`
		CookieName    string        `envconfig:"SESSION_COOKIE_NAME" default:"finboard_session"`
		Secret        string        `envconfig:"SESSION_SECRET" default:"finboard-dev-secret"`
		SecureCookie  bool          `envconfig:"SESSION_SECURE_COOKIE" default:"false"`
	}

	Auth struct {
		LoginRatePerMinute int `envconfig:"LOGIN_RATE_PER_MINUTE" default:"10"`
		LoginBurst         int `envconfig:"LOGIN_BURST" default:"5"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	Seed struct {
		Enabled bool `envconfig:"SEED_SAMPLE_DATA" default:"false"`
	}

	Client struct {
		APIURL     string `envconfig:"FINBOARD_API_URL" default:"http://localhost:8080"`
		CookieFile string `envconfig:"FINBOARD_COOKIE_FILE"`
	}
}

// UsesDevSecret reports whether session cookies are signed with
// DevSessionSecret.
func (c *Config) UsesDevSecret() bool {
	return c.Session.Secret == DevSessionSecret
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.Session.TTL)
	}

	if cfg.Session.SweepInterval <= 0 {
		return nil, fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %s", cfg.Session.SweepInterval)
	}

	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET must not be empty")
	}

	return &cfg, nil
}
