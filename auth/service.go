package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"undangan/models"
	"undangan/store"
)

const minPasswordLen = 6

// AccountStore is the part of the store the auth service needs.
type AccountStore interface {
	FindUser(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, username string, hashedPassword []byte, roleName string) (models.User, error)
	SetPassword(ctx context.Context, username string, hashedPassword []byte) error
}

// Service authenticates accounts and issues session tokens.
type Service struct {
	accounts AccountStore
	tokens   *TokenManager
}

func NewService(accounts AccountStore, tokens *TokenManager) *Service {
	return &Service{accounts: accounts, tokens: tokens}
}

// Tokens exposes the manager used for verification.
func (s *Service) Tokens() *TokenManager { return s.tokens }

// Login checks username/password and returns a signed token for the account's role.
func (s *Service) Login(ctx context.Context, username, password string) (string, Claims, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", Claims{}, ErrInvalidCredentials
	}
	u, err := s.accounts.FindUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", Claims{}, ErrInvalidCredentials
		}
		return "", Claims{}, err
	}
	if err := bcrypt.CompareHashAndPassword(u.HashedPassword, []byte(password)); err != nil {
		return "", Claims{}, ErrInvalidCredentials
	}
	role := Role(u.Role.Name)
	if !role.Valid() {
		return "", Claims{}, fmt.Errorf("user %q has unknown role %q", u.Username, u.Role.Name)
	}
	return s.tokens.Issue(u.Username, role)
}

// CreateAccount hashes password and stores a new account in role.
func (s *Service) CreateAccount(ctx context.Context, username, password string, role Role) (models.User, error) {
	if !role.Valid() {
		return models.User{}, fmt.Errorf("unknown role %q", role)
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	return s.accounts.CreateUser(ctx, username, hashed, string(role))
}

// ResetPassword replaces the password of an existing account.
func (s *Service) ResetPassword(ctx context.Context, username, password string) error {
	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}
	return s.accounts.SetPassword(ctx, username, hashed)
}

// EnsureAccount creates the account when missing and otherwise resets its password.
// Empty username or password is a no-op.
func (s *Service) EnsureAccount(ctx context.Context, username, password string, role Role) (bool, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return false, nil
	}
	_, err := s.accounts.FindUser(ctx, username)
	switch {
	case err == nil:
		return false, s.ResetPassword(ctx, username, password)
	case errors.Is(err, store.ErrNotFound):
		if _, err := s.CreateAccount(ctx, username, password, role); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

func hashPassword(password string) ([]byte, error) {
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password too short (min %d)", minPasswordLen)
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}
