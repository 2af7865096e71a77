package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the invitation API.
type Config struct {
	Port string `env:"PORT,default=8081"`

	DBDriver      string `env:"DB_DRIVER,default=postgres"`
	DBDSN         string `env:"DB_DSN"`
	DBAutoMigrate bool   `env:"DB_AUTO_MIGRATE,default=true"`

	JWTSecret    string        `env:"JWT_SECRET,default=dev-insecure-secret-change"`
	TokenTTL     time.Duration `env:"TOKEN_TTL,default=24h"`
	CookieSecure bool          `env:"COOKIE_SECURE,default=false"`
	CookieDomain string        `env:"COOKIE_DOMAIN"`

	BaseLink    string `env:"BASE_LINK,default=http://localhost:3000"`
	ConfirmPath string `env:"CONFIRM_PATH,default=/konfirmasi"`
	InvitePath  string `env:"INVITE_PATH,default=/undangan"`
	QREndpoint  string `env:"QR_ENDPOINT,default=https://api.qrserver.com/v1/create-qr-code/"`
	QRSize      int    `env:"QR_SIZE,default=300"`

	SlugStyle        string `env:"SLUG_STYLE,default=name"`
	SlugLength       int    `env:"SLUG_LENGTH,default=8"`
	SlugSuffixLength int    `env:"SLUG_SUFFIX_LENGTH,default=4"`
	SlugMaxAttempts  int    `env:"SLUG_MAX_ATTEMPTS,default=10"`

	CaptionFile string `env:"CAPTION_FILE"`

	ClientUsername string `env:"CLIENT_USERNAME"`
	ClientPassword string `env:"CLIENT_PASSWORD"`
	UserUsername   string `env:"USER_USERNAME"`
	UserPassword   string `env:"USER_PASSWORD"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=console"`
}

// Load reads ./.env (without overriding variables already set) and then the process environment.
func Load(ctx context.Context) (Config, error) {
	_ = godotenv.Load()
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith populates a Config from the given lookuper and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values envconfig cannot express in tags.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is not set")
	}
	switch c.SlugStyle {
	case "name", "numeric":
	default:
		return fmt.Errorf("SLUG_STYLE must be name or numeric, got %q", c.SlugStyle)
	}
	if c.SlugLength <= 0 || c.SlugSuffixLength <= 0 {
		return fmt.Errorf("slug lengths must be positive")
	}
	if c.SlugMaxAttempts <= 0 {
		return fmt.Errorf("SLUG_MAX_ATTEMPTS must be positive")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}
