// Package store is the data-access layer for invitations, check-ins, messages and the
// category/caption catalog.
package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"undangan/pkg/qr"
	"undangan/pkg/slug"
)

// Options configures a Store.
type Options struct {
	Links qr.Links
	Slugs slug.Generator
	// Now defaults to time.Now in UTC.
	Now func() time.Time
}

// Store runs every query against one injected gorm handle. It holds no other state.
type Store struct {
	db    *gorm.DB
	links qr.Links
	slugs slug.Generator
	now   func() time.Time
}

// New returns a Store on database.
func New(database *gorm.DB, opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Store{db: database, links: opts.Links, slugs: opts.Slugs, now: now}
}

// DB exposes the handle for health checks and tooling.
func (s *Store) DB() *gorm.DB { return s.db }

// Links returns the link builder used for new invitations.
func (s *Store) Links() qr.Links { return s.links }

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error { return Ping(ctx, s.db) }
