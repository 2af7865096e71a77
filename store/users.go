package store

import (
	"context"
	"fmt"
	"strings"

	"undangan/models"
)

// FindUser loads an account with its role.
func (s *Store) FindUser(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Preload("Role").
		Where("username = ?", strings.TrimSpace(username)).
		First(&u).Error
	if err != nil {
		return models.User{}, notFound(err, "user")
	}
	return u, nil
}

// CreateUser inserts an account bound to roleName. The password must already be hashed.
func (s *Store) CreateUser(ctx context.Context, username string, hashedPassword []byte, roleName string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, invalid("username", "username is required")
	}
	var role models.Role
	if err := s.db.WithContext(ctx).Where("name = ?", roleName).First(&role).Error; err != nil {
		if isNotFound(notFound(err, "role")) {
			return models.User{}, invalid("role", fmt.Sprintf("unknown role %q", roleName))
		}
		return models.User{}, err
	}
	rid := role.ID
	u := models.User{Username: username, HashedPassword: hashedPassword, RoleID: &rid}
	if err := s.db.WithContext(ctx).Omit("Role").Create(&u).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.User{}, fmt.Errorf("user %q %w", username, ErrConflict)
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	u.Role = role
	return u, nil
}

// SetPassword replaces the password hash of username.
func (s *Store) SetPassword(ctx context.Context, username string, hashedPassword []byte) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", strings.TrimSpace(username)).
		Update("hashed_password", hashedPassword)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %w", ErrNotFound)
	}
	return nil
}
