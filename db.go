package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"undangan/auth"
	"undangan/config"
	"undangan/pkg/qr"
	"undangan/pkg/slug"
	"undangan/store"
)

// openStore connects, migrates when DB_AUTO_MIGRATE is set, and seeds the roles.
// The returned func closes the connection pool.
func openStore(ctx context.Context, cfg config.Config) (*store.Store, func(), error) {
	database, err := store.Connect(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	closeDB := func() {
		if err := store.Close(database); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}
	if cfg.DBAutoMigrate {
		if err := store.Migrate(ctx, database); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	if err := store.Seed(ctx, database); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("seed database: %w", err)
	}
	return store.New(database, storeOptions(cfg)), closeDB, nil
}

func storeOptions(cfg config.Config) store.Options {
	return store.Options{
		Links: qr.Links{
			BaseLink:    cfg.BaseLink,
			ConfirmPath: cfg.ConfirmPath,
			InvitePath:  cfg.InvitePath,
			QREndpoint:  cfg.QREndpoint,
			QRSize:      cfg.QRSize,
		},
		Slugs: slug.Generator{
			Style:        slug.Style(cfg.SlugStyle),
			Length:       cfg.SlugLength,
			SuffixLength: cfg.SlugSuffixLength,
			MaxAttempts:  cfg.SlugMaxAttempts,
		},
	}
}

func newAuthService(cfg config.Config, st *store.Store) *auth.Service {
	return auth.NewService(st, auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, nil))
}

// seedAccounts creates or resets the accounts named in CLIENT_* and USER_*.
func seedAccounts(ctx context.Context, cfg config.Config, st *store.Store) error {
	svc := newAuthService(cfg, st)
	accounts := []struct {
		username, password string
		role               auth.Role
	}{
		{cfg.ClientUsername, cfg.ClientPassword, auth.RoleClient},
		{cfg.UserUsername, cfg.UserPassword, auth.RoleUser},
	}
	for _, a := range accounts {
		created, err := svc.EnsureAccount(ctx, a.username, a.password, a.role)
		if err != nil {
			return fmt.Errorf("seed %s account: %w", a.role, err)
		}
		if created {
			log.Info().Str("username", a.username).Str("role", string(a.role)).Msg("account created")
		}
	}
	return nil
}
