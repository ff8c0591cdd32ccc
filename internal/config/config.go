package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Database drivers understood by db.Open.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Modes for the current-user endpoint.
const (
	MeModeUnauthenticated = "unauthenticated"
	MeModeMock            = "mock"
	MeModeToken           = "token"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"DATABASE_DSN" envDefault:"snake_arena.db"`
	ResetDB  bool   `env:"RESET_DB"`
	SeedData bool   `env:"SEED_SAMPLE_DATA" envDefault:"true"`

	RedisAddr string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int           `env:"REDIS_DB" envDefault:"0"`
	RedisPass string        `env:"REDIS_PASSWORD"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"30s"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-me"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"15m"`

	// MeMode selects how /auth/me resolves the caller: always 401, a fixed
	// mock user, or the subject of a verified bearer token.
	MeMode     string `env:"AUTH_ME_MODE" envDefault:"unauthenticated"`
	MockEmail  string `env:"AUTH_MOCK_EMAIL" envDefault:"player1@snake.io"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	RateLimitRPS       float64  `env:"RATE_LIMIT_RPS" envDefault:"10"`
	StaticDir          string   `env:"STATIC_DIR"`
	EnableSeedEndpoint bool     `env:"ENABLE_SEED_ENDPOINT"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	SwaggerHost string `env:"SWAGGER_HOST"`
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultJWTSecret is the placeholder JWT_SECRET. It is refused when tokens
// authenticate callers.
const DefaultJWTSecret = "change-me"

// Validate rejects values the rest of the application cannot act on.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverMySQL:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.MeMode {
	case MeModeUnauthenticated, MeModeMock, MeModeToken:
	default:
		return fmt.Errorf("config: unsupported AUTH_ME_MODE %q", c.MeMode)
	}
	if c.MeMode == MeModeToken && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return fmt.Errorf("config: AUTH_ME_MODE=token requires JWT_SECRET to be set to a non-default value")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("config: RATE_LIMIT_RPS must not be negative")
	}
	return nil
}
