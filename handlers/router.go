package handlers

import (
	"github.com/gin-gonic/gin"

	"undangan/auth"
	"undangan/logging"
)

// Router builds the engine with logging, recovery and metrics middleware and every route.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware())
	if h.metrics != nil {
		r.Use(h.metrics.Middleware())
		r.GET("/metrics", h.metrics.Handler())
	}
	h.Register(r)
	return r
}

// Register mounts the API on r.
func (h *Handler) Register(r gin.IRouter) {
	tokens := h.auth.Tokens()
	client := auth.Require(tokens, auth.RoleClient)
	user := auth.Require(tokens, auth.RoleUser)
	scanner := auth.Require(tokens, auth.RoleClient, auth.RoleUser)

	r.GET("/healthz", h.healthz)
	r.GET("/readyz", h.readyz)

	api := r.Group("/api")
	api.POST("/login", h.login)
	api.POST("/logout", h.logout)
	api.GET("/client/me", client, h.me)
	api.GET("/user/me", user, h.me)

	inv := api.Group("/invitations")
	inv.GET("", client, h.listInvitations)
	inv.POST("", client, h.createInvitation)
	inv.GET("/summary", client, h.summary)
	inv.PATCH("/checkin/:slug", scanner, h.checkin)
	inv.GET("/:slug", h.getInvitation)
	inv.GET("/:slug/qr.png", h.invitationQR)
	inv.GET("/:slug/messages", h.listInvitationMessages)
	inv.GET("/:slug/checkin", scanner, h.checkinLog)
	inv.PATCH("/:slug/status", client, h.updateStatus)
	inv.PATCH("/:slug/kehadiran", h.updateRSVP)
	inv.PUT("/:id", client, h.updateInvitation)
	inv.DELETE("/:id", client, h.deleteInvitation)
	api.GET("/summary", client, h.summary)

	msg := api.Group("/messages")
	msg.GET("", h.listMessages)
	msg.POST("", h.createMessage)
	msg.PUT("/:id", client, h.updateMessage)
	msg.DELETE("/:id", client, h.deleteMessage)

	cat := api.Group("/categories")
	cat.GET("", h.listCategories)
	cat.POST("", client, h.createCategory)
	cat.PUT("/:id", client, h.updateCategory)
	cat.DELETE("/:id", client, h.deleteCategory)

	capt := api.Group("/captions")
	capt.GET("", h.listCaptions)
	capt.GET("/category/:id", h.categoryCaption)
	capt.POST("", client, h.createCaption)
}
