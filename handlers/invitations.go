package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"undangan/logging"
	"undangan/pkg/qr"
	"undangan/store"
)

type invitationRequest struct {
	From       string  `json:"from"`
	Name       string  `json:"name"`
	CategoryID *uint   `json:"category_id"`
	Phone      string  `json:"phone"`
	Qty        flexInt `json:"qty"`
	Type       string  `json:"type"`
}

func (r invitationRequest) input() store.InvitationInput {
	return store.InvitationInput{
		From:       r.From,
		Name:       r.Name,
		CategoryID: r.CategoryID,
		Phone:      r.Phone,
		Qty:        r.Qty.Value,
		Type:       r.Type,
	}
}

func (h *Handler) listInvitations(c *gin.Context) {
	f := store.InvitationFilter{
		Type:       c.Query("type"),
		RSVPStatus: c.Query("rsvp_status"),
		Search:     c.Query("search"),
	}
	cat, ok := queryID(c, "category_id")
	if !ok {
		return
	}
	f.CategoryID = cat
	if raw := c.Query("checked_in"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "checked_in", "checked_in must be true or false")
			return
		}
		f.CheckedIn = &b
	}
	items, err := h.store.ListInvitations(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) createInvitation(c *gin.Context) {
	var req invitationRequest
	if !bindJSON(c, &req, false) {
		return
	}
	created, err := h.store.CreateInvitation(c.Request.Context(), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.InvitationsCreated.Inc()
	}
	logging.FromContext(c).Info().Str("slug", created.Slug).Uint("id", created.ID).Msg("invitation created")
	c.JSON(http.StatusCreated, gin.H{
		"message":     "undangan dibuat",
		"id":          created.ID,
		"slug":        created.Slug,
		"qr_url":      created.QRURL,
		"link":        created.Link,
		"invite_link": created.InviteLink,
	})
}

func parseIncludes(raw string) store.Includes {
	var inc store.Includes
	for _, part := range strings.Split(raw, ",") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "caption", "captions":
			inc.Caption = true
		case "checkin", "checkins":
			inc.Checkins = true
		case "message", "messages":
			inc.Messages = true
		case "all":
			inc = store.Includes{Caption: true, Checkins: true, Messages: true}
		}
	}
	return inc
}

func (h *Handler) getInvitation(c *gin.Context) {
	d, err := h.store.GetBySlug(c.Request.Context(), c.Param("slug"), parseIncludes(c.Query("include")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) invitationQR(c *gin.Context) {
	size := h.qrSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < qr.MinSize || n > qr.MaxSize {
			badRequest(c, "size", "size must be between "+strconv.Itoa(qr.MinSize)+" and "+strconv.Itoa(qr.MaxSize))
			return
		}
		size = n
	}
	if size < qr.MinSize {
		size = qr.MinSize
	}
	if size > qr.MaxSize {
		size = qr.MaxSize
	}
	d, err := h.store.GetBySlug(c.Request.Context(), c.Param("slug"), store.Includes{})
	if err != nil {
		h.fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := qr.WritePNG(&buf, d.Link, size); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (h *Handler) updateInvitation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req invitationRequest
	if !bindJSON(c, &req, false) {
		return
	}
	inv, err := h.store.UpdateInvitation(c.Request.Context(), id, req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "undangan diperbarui", "data": inv})
}

type statusRequest struct {
	IsSent           *bool `json:"is_sent"`
	IsCopied         *bool `json:"is_copied"`
	StatusPengiriman *bool `json:"status_pengiriman"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req, false) {
		return
	}
	inv, err := h.store.UpdateDeliveryStatus(c.Request.Context(), c.Param("slug"), store.DeliveryStatusInput{
		IsSent:           req.IsSent,
		IsCopied:         req.IsCopied,
		StatusPengiriman: req.StatusPengiriman,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status pengiriman diperbarui", "data": inv})
}

type rsvpRequest struct {
	RSVPStatus string  `json:"rsvp_status"`
	JumlahReal flexInt `json:"jumlah_real"`
}

func (h *Handler) updateRSVP(c *gin.Context) {
	var req rsvpRequest
	if !bindJSON(c, &req, false) {
		return
	}
	inv, err := h.store.UpdateRSVP(c.Request.Context(), c.Param("slug"), store.RSVPInput{
		Status: req.RSVPStatus,
		Qty:    req.JumlahReal.Value,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "konfirmasi kehadiran disimpan",
		"slug":        inv.Slug,
		"rsvp_status": inv.RSVPStatus,
		"real_qty":    inv.RealQty,
	})
}

type checkinRequest struct {
	CheckedInQty flexInt `json:"checked_in_qty"`
	DeviceNote   string  `json:"device_note"`
}

func (h *Handler) checkin(c *gin.Context) {
	var req checkinRequest
	if !bindJSON(c, &req, true) {
		return
	}
	res, err := h.store.Checkin(c.Request.Context(), c.Param("slug"), store.CheckinInput{
		Qty:        req.CheckedInQty.Value,
		DeviceNote: req.DeviceNote,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveCheckin(res.First)
	}
	msg := "tamu sudah check-in sebelumnya"
	if res.First {
		msg = "check-in berhasil"
	}
	logging.FromContext(c).Info().
		Str("slug", res.Slug).
		Bool("first", res.First).
		Int("scan_count", res.ScanCount).
		Str("by", c.GetString("username")).
		Msg("checkin")
	c.JSON(http.StatusOK, gin.H{"message": msg, "data": res})
}

func (h *Handler) checkinLog(c *gin.Context) {
	entry, err := h.store.CheckinLog(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) deleteInvitation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteInvitation(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "undangan dihapus"})
}

func (h *Handler) summary(c *gin.Context) {
	s, err := h.store.Summary(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
