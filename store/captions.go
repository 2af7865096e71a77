package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm/clause"

	"undangan/models"
)

// CaptionInput creates a caption. Active defaults to true.
type CaptionInput struct {
	CategoryID uint
	Caption    string
	Active     *bool
}

// RenderedCaption pairs the stored template with its text for one guest.
type RenderedCaption struct {
	ID       uint   `json:"id"`
	Template string `json:"template"`
	Text     string `json:"text"`
}

// RenderCaption fills {nama}, {dari} and {link} for inv.
func RenderCaption(c models.Caption, inv models.Invitation, link string) RenderedCaption {
	r := strings.NewReplacer(
		"{nama}", inv.Name,
		"{dari}", inv.From,
		"{link}", link,
	)
	return RenderedCaption{ID: c.ID, Template: c.Caption, Text: r.Replace(c.Caption)}
}

// ListCaptions returns captions newest first, optionally for one category.
func (s *Store) ListCaptions(ctx context.Context, categoryID *uint) ([]models.Caption, error) {
	q := s.db.WithContext(ctx).Model(&models.Caption{})
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	out := []models.Caption{}
	if err := q.Order("id desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveCaption returns the newest active caption of a category.
func (s *Store) ActiveCaption(ctx context.Context, categoryID uint) (models.Caption, error) {
	var c models.Caption
	err := s.db.WithContext(ctx).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("id desc").
		Limit(1).
		Take(&c).Error
	if err != nil {
		return models.Caption{}, notFound(err, "caption")
	}
	return c, nil
}

// CreateCaption inserts a caption for an existing category.
func (s *Store) CreateCaption(ctx context.Context, in CaptionInput) (models.Caption, error) {
	text := strings.TrimSpace(in.Caption)
	if text == "" {
		return models.Caption{}, invalid("caption", "caption is required")
	}
	if in.CategoryID == 0 {
		return models.Caption{}, invalid("category_id", "category_id is required")
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", in.CategoryID).Count(&n).Error; err != nil {
		return models.Caption{}, err
	}
	if n == 0 {
		return models.Caption{}, invalid("category_id", "category does not exist")
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	c := models.Caption{CategoryID: in.CategoryID, Caption: text, IsActive: active}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&c).Error; err != nil {
		return models.Caption{}, fmt.Errorf("insert caption: %w", err)
	}
	return c, nil
}

// SyncCaption makes sure categoryName has a caption with exactly text, creating the
// category if needed. An existing identical caption only has its active flag updated.
// It reports whether anything was written.
func (s *Store) SyncCaption(ctx context.Context, categoryName, text string, active bool) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, invalid("caption", "caption is required")
	}
	cat, err := s.FindOrCreateCategory(ctx, categoryName)
	if err != nil {
		return false, err
	}
	var existing models.Caption
	err = s.db.WithContext(ctx).Where("category_id = ? AND caption = ?", cat.ID, text).Take(&existing).Error
	if err == nil {
		if existing.IsActive == active {
			return false, nil
		}
		return true, s.db.WithContext(ctx).Model(&existing).Update("is_active", active).Error
	}
	if err := notFound(err, "caption"); !isNotFound(err) {
		return false, err
	}
	c := models.Caption{CategoryID: cat.ID, Caption: text, IsActive: active}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&c).Error; err != nil {
		return false, fmt.Errorf("insert caption: %w", err)
	}
	return true, nil
}
