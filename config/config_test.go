package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"DB_DSN": "host=localhost dbname=undangan",
	}))
	require.NoError(t, err)
	require.Equal(t, "8081", cfg.Port)
	require.Equal(t, ":8081", cfg.Addr())
	require.Equal(t, "postgres", cfg.DBDriver)
	require.True(t, cfg.DBAutoMigrate)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, "/konfirmasi", cfg.ConfirmPath)
	require.Equal(t, "name", cfg.SlugStyle)
	require.Equal(t, 10, cfg.SlugMaxAttempts)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing dsn", env: map[string]string{}},
		{name: "unknown driver", env: map[string]string{"DB_DSN": "x", "DB_DRIVER": "mysql"}},
		{name: "unknown slug style", env: map[string]string{"DB_DSN": "x", "SLUG_STYLE": "uuid"}},
		{name: "zero attempts", env: map[string]string{"DB_DSN": "x", "SLUG_MAX_ATTEMPTS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tt.env))
			require.Error(t, err)
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"DB_DSN":      "test.db",
		"DB_DRIVER":   "sqlite",
		"PORT":        "9000",
		"SLUG_STYLE":  "numeric",
		"TOKEN_TTL":   "2h",
		"BASE_LINK":   "https://nikah.example",
		"INVITE_PATH": "/u",
	}))
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, ":9000", cfg.Addr())
	require.Equal(t, "numeric", cfg.SlugStyle)
	require.Equal(t, 2*time.Hour, cfg.TokenTTL)
	require.Equal(t, "https://nikah.example", cfg.BaseLink)
	require.Equal(t, "/u", cfg.InvitePath)
}
