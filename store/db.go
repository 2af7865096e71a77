package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"undangan/models"
)

// Role names seeded into the roles table.
const (
	RoleClient = models.RoleNameClient
	RoleUser   = models.RoleNameUser
)

// Connect opens a gorm session for driver ("postgres" or "sqlite") and applies pool limits.
func Connect(ctx context.Context, driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		if !strings.Contains(dsn, "?") {
			dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// single writer; one connection also keeps transactions from seeing a stale snapshot
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return database, nil
}

// Close releases the underlying sql.DB.
func Close(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the database is reachable.
func Ping(ctx context.Context, database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or updates every table. Referenced tables come first so foreign keys apply.
func Migrate(ctx context.Context, database *gorm.DB) error {
	steps := []struct {
		table string
		model any
	}{
		{"roles", &models.Role{}},
		{"users", &models.User{}},
		{"categories", &models.Category{}},
		{"caption", &models.Caption{}},
		{"invitations", &models.Invitation{}},
		{"checkins", &models.Checkin{}},
		{"messages", &models.Message{}},
	}
	for _, s := range steps {
		if err := database.WithContext(ctx).AutoMigrate(s.model); err != nil {
			return fmt.Errorf("migrate %s: %w", s.table, err)
		}
	}
	return nil
}

// Seed inserts the two access roles. It is idempotent.
func Seed(ctx context.Context, database *gorm.DB) error {
	roles := []models.Role{
		{Name: RoleClient, Description: "event owner, manages invitations"},
		{Name: RoleUser, Description: "reception staff, scans QR codes"},
	}
	for _, r := range roles {
		if err := database.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&r).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", r.Name, err)
		}
	}
	log.Debug().Int("roles", len(roles)).Msg("seeded roles")
	return nil
}
