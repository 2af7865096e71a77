package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const claimsKey = "auth.claims"

// Require passes the request when a cookie of any listed role verifies and carries
// that role. Missing and invalid cookies answer 401, a valid cookie of another role 403.
func Require(tokens *TokenManager, roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authorize(c, tokens, roles)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, ErrWrongRole) {
				status = http.StatusForbidden
			}
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}
		c.Set(claimsKey, claims)
		c.Set("username", claims.Username)
		c.Set("role", string(claims.Role))
		c.Next()
	}
}

func authorize(c *gin.Context, tokens *TokenManager, roles []Role) (Claims, error) {
	var failure error
	for _, role := range roles {
		raw, err := c.Cookie(CookieName(role))
		if err != nil || raw == "" {
			continue
		}
		claims, err := tokens.Verify(raw)
		switch {
		case err != nil:
			if failure == nil {
				failure = ErrInvalidToken
			}
		case claims.Role != role:
			failure = ErrWrongRole
		default:
			return claims, nil
		}
	}
	if failure != nil {
		return Claims{}, failure
	}
	if foreignSession(c, tokens, roles) {
		return Claims{}, ErrWrongRole
	}
	return Claims{}, ErrMissingToken
}

// foreignSession reports whether the caller holds a valid session of a role the route
// does not accept.
func foreignSession(c *gin.Context, tokens *TokenManager, accepted []Role) bool {
	for _, role := range Roles {
		if contains(accepted, role) {
			continue
		}
		raw, err := c.Cookie(CookieName(role))
		if err != nil || raw == "" {
			continue
		}
		if claims, err := tokens.Verify(raw); err == nil && claims.Role == role {
			return true
		}
	}
	return false
}

func contains(roles []Role, r Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

// ClaimsFrom returns the claims set by Require.
func ClaimsFrom(c *gin.Context) (Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}

// CookieOptions controls the attributes of session cookies.
type CookieOptions struct {
	Domain string
	Secure bool
}

// SetSession writes the cookie for claims.Role.
func SetSession(c *gin.Context, token string, claims Claims, opts CookieOptions) {
	maxAge := int(time.Until(claims.ExpiresAt).Seconds())
	if !claims.IssuedAt.IsZero() {
		maxAge = int(claims.ExpiresAt.Sub(claims.IssuedAt).Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName(claims.Role), token, maxAge, "/", opts.Domain, opts.Secure, true)
}

// ClearSessions expires every role cookie.
func ClearSessions(c *gin.Context, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	for _, role := range Roles {
		c.SetCookie(CookieName(role), "", -1, "/", opts.Domain, opts.Secure, true)
	}
}
