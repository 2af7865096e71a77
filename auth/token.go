package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"undangan/models"
)

// Role names one of the two session kinds.
type Role string

const (
	RoleClient Role = models.RoleNameClient
	RoleUser   Role = models.RoleNameUser
)

// Roles lists every role in the order cookies are checked.
var Roles = []Role{RoleClient, RoleUser}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleUser
}

// CookieName is the cookie carrying the session of role r.
func CookieName(r Role) string {
	return "token_" + string(r)
}

var (
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrWrongRole          = errors.New("wrong role")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Claims is the decoded session attached to a request.
type Claims struct {
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	ID        string    `json:"jti"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenManager signs and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns a manager for secret. now may be nil.
func NewTokenManager(secret string, ttl time.Duration, now func() time.Time) *TokenManager {
	if now == nil {
		now = time.Now
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: now}
}

// TTL is the lifetime of issued tokens.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for username in role.
func (m *TokenManager) Issue(username string, role Role) (string, Claims, error) {
	now := m.now()
	c := Claims{
		Username:  username,
		Role:      role,
		ID:        uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": c.Username,
		"role":     string(c.Role),
		"jti":      c.ID,
		"iat":      now.Unix(),
		"exp":      c.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, c, nil
}

// Verify checks the signature and expiry of raw and decodes its claims.
func (m *TokenManager) Verify(raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrMissingToken
	}
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	username, _ := mc["username"].(string)
	role, _ := mc["role"].(string)
	jti, _ := mc["jti"].(string)
	if username == "" || !Role(role).Valid() {
		return Claims{}, fmt.Errorf("%w: incomplete claims", ErrInvalidToken)
	}
	c := Claims{Username: username, Role: Role(role), ID: jti}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
