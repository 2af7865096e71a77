package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"undangan/store"
)

type messageRequest struct {
	InvitationID *uint  `json:"invitation_id"`
	Slug         string `json:"slug"`
	Message      string `json:"message"`
}

func (h *Handler) listMessages(c *gin.Context) {
	invID, ok := queryID(c, "invitation_id")
	if !ok {
		return
	}
	msgs, err := h.store.ListMessages(c.Request.Context(), invID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *Handler) listInvitationMessages(c *gin.Context) {
	msgs, err := h.store.ListMessagesBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *Handler) createMessage(c *gin.Context) {
	var req messageRequest
	if !bindJSON(c, &req, false) {
		return
	}
	m, err := h.store.CreateMessage(c.Request.Context(), store.MessageInput{
		InvitationID: req.InvitationID,
		Slug:         req.Slug,
		Message:      req.Message,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "ucapan terkirim", "data": m})
}

func (h *Handler) updateMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req messageRequest
	if !bindJSON(c, &req, false) {
		return
	}
	m, err := h.store.UpdateMessage(c.Request.Context(), id, req.Message)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ucapan diperbarui", "data": m})
}

func (h *Handler) deleteMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteMessage(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ucapan dihapus"})
}
