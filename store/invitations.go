package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"undangan/models"
	"undangan/pkg/slug"
)

// InvitationInput carries the mutable fields of an invitation, used by create and full update.
type InvitationInput struct {
	From       string
	Name       string
	CategoryID *uint
	Phone      string
	Qty        *int
	Type       string
}

// CreatedInvitation is what the caller needs right after creation.
type CreatedInvitation struct {
	ID         uint   `json:"id"`
	Slug       string `json:"slug"`
	QRURL      string `json:"qr_url"`
	Link       string `json:"link"`
	InviteLink string `json:"invite_link"`
}

// InvitationFilter narrows List. Zero values mean "no filter".
type InvitationFilter struct {
	Type       string
	CategoryID *uint
	CheckedIn  *bool
	RSVPStatus string
	Search     string
}

// DeliveryStatusInput updates delivery flags. Nil fields are left untouched.
type DeliveryStatusInput struct {
	IsSent           *bool
	IsCopied         *bool
	StatusPengiriman *bool
}

// RSVPInput is a manual attendance confirmation.
type RSVPInput struct {
	Status string
	Qty    *int
}

// Includes selects related data loaded by GetBySlug.
type Includes struct {
	Caption  bool
	Checkins bool
	Messages bool
}

// InvitationDetail is one invitation with its links and optional related rows.
type InvitationDetail struct {
	models.Invitation
	Link       string           `json:"link"`
	InviteLink string           `json:"invite_link"`
	Caption    *RenderedCaption `json:"caption,omitempty"`
	Checkin    *models.Checkin  `json:"checkin,omitempty"`
	Messages   []MessageView    `json:"messages,omitempty"`
}

func (s *Store) validateInvitation(ctx context.Context, in *InvitationInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("name", "name is required")
	}
	in.Type = strings.TrimSpace(in.Type)
	if in.Type == "" {
		return invalid("type", "type is required")
	}
	if !models.DeliveryType(in.Type).Valid() {
		return invalid("type", "type must be digital or cetak")
	}
	if in.Qty != nil && *in.Qty < 1 {
		return invalid("qty", "qty must be at least 1")
	}
	if in.CategoryID != nil {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", *in.CategoryID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return invalid("category_id", "category does not exist")
		}
	}
	return nil
}

func (s *Store) slugExists(ctx context.Context, candidate string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Invitation{}).Where("slug = ?", candidate).Count(&n).Error
	return n > 0, err
}

// CreateInvitation validates in, allocates a unique slug and inserts the row.
// RSVP status is left to the column default.
func (s *Store) CreateInvitation(ctx context.Context, in InvitationInput) (CreatedInvitation, error) {
	if err := s.validateInvitation(ctx, &in); err != nil {
		return CreatedInvitation{}, err
	}
	qty := 1
	if in.Qty != nil {
		qty = *in.Qty
	}

	budget := s.slugs.MaxAttempts
	if budget <= 0 {
		budget = 1
	}
	// a slug can still be taken between the check and the insert; the unique index catches
	// it and the next pass gets only the attempts left over
	for budget > 0 {
		g := s.slugs
		g.MaxAttempts = budget
		checked := 0
		sl, err := g.Allocate(ctx, in.Name, func(ctx context.Context, candidate string) (bool, error) {
			checked++
			return s.slugExists(ctx, candidate)
		})
		budget -= checked
		if err != nil {
			return CreatedInvitation{}, err
		}
		inv := models.Invitation{
			From:       strings.TrimSpace(in.From),
			Name:       in.Name,
			CategoryID: in.CategoryID,
			Phone:      strings.TrimSpace(in.Phone),
			Qty:        qty,
			Type:       models.DeliveryType(in.Type),
			Slug:       sl,
			QRURL:      s.links.ImageURL(sl),
		}
		err = s.db.WithContext(ctx).Omit(clause.Associations).Create(&inv).Error
		if isUniqueConstraintError(err) {
			continue
		}
		if err != nil {
			return CreatedInvitation{}, fmt.Errorf("insert invitation: %w", err)
		}
		return CreatedInvitation{
			ID:         inv.ID,
			Slug:       inv.Slug,
			QRURL:      inv.QRURL,
			Link:       s.links.Confirm(inv.Slug),
			InviteLink: s.links.Invite(inv.Slug, inv.Name),
		}, nil
	}
	return CreatedInvitation{}, slug.ErrExhausted
}

// ListInvitations returns invitations newest first.
func (s *Store) ListInvitations(ctx context.Context, f InvitationFilter) ([]models.Invitation, error) {
	q := s.db.WithContext(ctx).Model(&models.Invitation{}).Preload("Category")
	if f.Type != "" {
		if !models.DeliveryType(f.Type).Valid() {
			return nil, invalid("type", "type must be digital or cetak")
		}
		q = q.Where("type = ?", f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.CheckedIn != nil {
		q = q.Where("checked_in = ?", *f.CheckedIn)
	}
	if f.RSVPStatus != "" {
		if !models.RSVPStatus(f.RSVPStatus).Valid() {
			return nil, invalid("rsvp_status", "unknown rsvp status")
		}
		q = q.Where("rsvp_status = ?", f.RSVPStatus)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where(`(LOWER(name) LIKE ? OR LOWER(phone) LIKE ? OR LOWER("from") LIKE ? OR LOWER(slug) LIKE ?)`, like, like, like, like)
	}
	items := []models.Invitation{}
	if err := q.Order("id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) invitationBySlug(ctx context.Context, tx *gorm.DB, sl string) (models.Invitation, error) {
	var inv models.Invitation
	if err := tx.WithContext(ctx).Where("slug = ?", sl).First(&inv).Error; err != nil {
		return models.Invitation{}, notFound(err, "invitation")
	}
	return inv, nil
}

// GetBySlug loads one invitation and the related rows selected by inc.
func (s *Store) GetBySlug(ctx context.Context, sl string, inc Includes) (InvitationDetail, error) {
	var inv models.Invitation
	if err := s.db.WithContext(ctx).Preload("Category").Where("slug = ?", sl).First(&inv).Error; err != nil {
		return InvitationDetail{}, notFound(err, "invitation")
	}
	d := InvitationDetail{
		Invitation: inv,
		Link:       s.links.Confirm(inv.Slug),
		InviteLink: s.links.Invite(inv.Slug, inv.Name),
	}
	if inc.Caption && inv.CategoryID != nil {
		c, err := s.ActiveCaption(ctx, *inv.CategoryID)
		switch {
		case err == nil:
			rc := RenderCaption(c, inv, d.InviteLink)
			d.Caption = &rc
		case !errors.Is(err, ErrNotFound):
			return InvitationDetail{}, err
		}
	}
	if inc.Checkins {
		var ck models.Checkin
		err := s.db.WithContext(ctx).Where("invitation_id = ?", inv.ID).First(&ck).Error
		switch {
		case err == nil:
			d.Checkin = &ck
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return InvitationDetail{}, err
		}
	}
	if inc.Messages {
		msgs, err := s.ListMessages(ctx, &inv.ID)
		if err != nil {
			return InvitationDetail{}, err
		}
		d.Messages = msgs
	}
	return d, nil
}

// UpdateInvitation replaces every mutable field of invitation id. Slug, RSVP and
// check-in state are never touched here.
func (s *Store) UpdateInvitation(ctx context.Context, id uint, in InvitationInput) (models.Invitation, error) {
	if err := s.validateInvitation(ctx, &in); err != nil {
		return models.Invitation{}, err
	}
	var inv models.Invitation
	if err := s.db.WithContext(ctx).First(&inv, id).Error; err != nil {
		return models.Invitation{}, notFound(err, "invitation")
	}
	qty := inv.Qty
	if in.Qty != nil {
		qty = *in.Qty
	}
	var category any
	if in.CategoryID != nil {
		category = *in.CategoryID
	}
	err := s.db.WithContext(ctx).Model(&inv).Updates(map[string]any{
		"from":        strings.TrimSpace(in.From),
		"name":        in.Name,
		"category_id": category,
		"phone":       strings.TrimSpace(in.Phone),
		"qty":         qty,
		"type":        in.Type,
	}).Error
	if err != nil {
		return models.Invitation{}, fmt.Errorf("update invitation %d: %w", id, err)
	}
	if err := s.db.WithContext(ctx).Preload("Category").First(&inv, id).Error; err != nil {
		return models.Invitation{}, err
	}
	return inv, nil
}

// UpdateDeliveryStatus sets the delivery flags present in in.
func (s *Store) UpdateDeliveryStatus(ctx context.Context, sl string, in DeliveryStatusInput) (models.Invitation, error) {
	upd := map[string]any{}
	if in.IsSent != nil {
		upd["is_sent"] = *in.IsSent
	}
	if in.IsCopied != nil {
		upd["is_copied"] = *in.IsCopied
	}
	if in.StatusPengiriman != nil {
		upd["status_pengiriman"] = *in.StatusPengiriman
	}
	if len(upd) == 0 {
		return models.Invitation{}, invalid("status", "one of is_sent, is_copied, status_pengiriman is required")
	}
	inv, err := s.invitationBySlug(ctx, s.db, sl)
	if err != nil {
		return models.Invitation{}, err
	}
	if err := s.db.WithContext(ctx).Model(&inv).Updates(upd).Error; err != nil {
		return models.Invitation{}, fmt.Errorf("update delivery status: %w", err)
	}
	return s.invitationBySlug(ctx, s.db, sl)
}

// UpdateRSVP records a manual attendance reply. "Tidak Hadir" always stores a confirmed
// quantity of zero; otherwise Qty is stored as given, nil clearing it.
func (s *Store) UpdateRSVP(ctx context.Context, sl string, in RSVPInput) (models.Invitation, error) {
	status := models.RSVPStatus(strings.TrimSpace(in.Status))
	if status == "" {
		return models.Invitation{}, invalid("rsvp_status", "rsvp_status is required")
	}
	if !status.Valid() {
		return models.Invitation{}, invalid("rsvp_status", "rsvp_status must be one of Belum Konfirmasi, Hadir, Tidak Hadir")
	}
	var realQty any
	switch {
	case status == models.RSVPTidakHadir:
		realQty = 0
	case in.Qty != nil:
		if *in.Qty < 0 {
			return models.Invitation{}, invalid("jumlah_real", "jumlah_real cannot be negative")
		}
		realQty = *in.Qty
	}

	var out models.Invitation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := s.invitationBySlug(ctx, tx, sl)
		if err != nil {
			return err
		}
		if err := tx.Model(&inv).Updates(map[string]any{
			"rsvp_status": string(status),
			"real_qty":    realQty,
		}).Error; err != nil {
			return fmt.Errorf("update rsvp: %w", err)
		}
		out, err = s.invitationBySlug(ctx, tx, sl)
		return err
	})
	return out, err
}

// DeleteInvitation removes invitation id together with its check-in log and messages.
func (s *Store) DeleteInvitation(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invitation_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("invitation_id = ?", id).Delete(&models.Checkin{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Invitation{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("invitation %w", ErrNotFound)
		}
		return nil
	})
}
