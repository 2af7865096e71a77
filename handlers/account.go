package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"undangan/auth"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, false) {
		return
	}
	token, claims, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.fail(c, err)
		return
	}
	auth.SetSession(c, token, claims, h.cookies)
	c.JSON(http.StatusOK, gin.H{
		"message":    "login berhasil",
		"username":   claims.Username,
		"role":       claims.Role,
		"expires_at": claims.ExpiresAt,
	})
}

func (h *Handler) logout(c *gin.Context) {
	auth.ClearSessions(c, h.cookies)
	c.JSON(http.StatusOK, gin.H{"message": "logout berhasil"})
}

func (h *Handler) me(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing claims"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username":   claims.Username,
		"role":       claims.Role,
		"expires_at": claims.ExpiresAt,
	})
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) readyz(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
