// Package handlers exposes the invitation API over gin.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"undangan/auth"
	"undangan/logging"
	"undangan/metrics"
	"undangan/pkg/slug"
	"undangan/store"
)

// Handler holds the dependencies shared by every route.
type Handler struct {
	store   *store.Store
	auth    *auth.Service
	metrics *metrics.Metrics
	cookies auth.CookieOptions
	qrSize  int
}

// Deps wires a Handler. Metrics may be nil.
type Deps struct {
	Store   *store.Store
	Auth    *auth.Service
	Metrics *metrics.Metrics
	Cookies auth.CookieOptions
	QRSize  int
}

func New(d Deps) *Handler {
	return &Handler{
		store:   d.Store,
		auth:    d.Auth,
		metrics: d.Metrics,
		cookies: d.Cookies,
		qrSize:  d.QRSize,
	}
}

// fail writes the JSON error for err. Unexpected errors are logged and reported generically.
func (h *Handler) fail(c *gin.Context, err error) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "field": ve.Field})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, slug.ErrExhausted):
		logging.FromContext(c).Warn().Err(err).Msg("slug allocation exhausted")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not allocate a unique slug, try again"})
	default:
		logging.FromContext(c).Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, field, msg string) {
	body := gin.H{"error": msg}
	if field != "" {
		body["field"] = field
	}
	c.JSON(http.StatusBadRequest, body)
}

// bindJSON decodes the request body into dst. An empty body is accepted when optional is set.
func bindJSON(c *gin.Context, dst any, optional bool) bool {
	if optional && (c.Request.Body == nil || c.Request.Body == http.NoBody) {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		badRequest(c, "", "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, name, name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func queryID(c *gin.Context, name string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		badRequest(c, name, name+" must be a positive integer")
		return nil, false
	}
	v := uint(id)
	return &v, true
}

// flexInt accepts a JSON number, a numeric string, an empty string or null.
// Form-driven clients send quantities both ways.
type flexInt struct {
	Value *int
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		f.Value = nil
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			f.Value = nil
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%q is not a whole number", s)
	}
	f.Value = &n
	return nil
}
