package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"undangan/store"
)

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) listCategories(c *gin.Context) {
	cats, err := h.store.ListCategories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (h *Handler) createCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req, false) {
		return
	}
	cat, err := h.store.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) updateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if !bindJSON(c, &req, false) {
		return
	}
	cat, err := h.store.UpdateCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) deleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteCategory(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "kategori dihapus"})
}

type captionRequest struct {
	CategoryID uint   `json:"category_id"`
	Caption    string `json:"caption"`
	IsActive   *bool  `json:"is_active"`
}

func (h *Handler) listCaptions(c *gin.Context) {
	catID, ok := queryID(c, "category_id")
	if !ok {
		return
	}
	caps, err := h.store.ListCaptions(c.Request.Context(), catID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, caps)
}

// categoryCaption returns the caption currently used for a category.
func (h *Handler) categoryCaption(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cp, err := h.store.ActiveCaption(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cp)
}

func (h *Handler) createCaption(c *gin.Context) {
	var req captionRequest
	if !bindJSON(c, &req, false) {
		return
	}
	cp, err := h.store.CreateCaption(c.Request.Context(), store.CaptionInput{
		CategoryID: req.CategoryID,
		Caption:    req.Caption,
		Active:     req.IsActive,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cp)
}
