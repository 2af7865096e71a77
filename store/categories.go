package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"undangan/models"
)

// CategoryView is a category with the size of its guest list.
type CategoryView struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	TotalGuests int64     `json:"total_guests"`
	TotalQty    int64     `json:"total_qty"`
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "name is required")
	}
	if len(name) > 100 {
		return "", invalid("name", "name longer than 100 characters")
	}
	return name, nil
}

// ListCategories returns every category with invitation counts, in id order.
func (s *Store) ListCategories(ctx context.Context) ([]CategoryView, error) {
	out := []CategoryView{}
	err := s.db.WithContext(ctx).Table("categories").
		Select(`categories.id, categories.name, categories.created_at,
			COUNT(invitations.id) AS total_guests,
			CAST(COALESCE(SUM(invitations.qty), 0) AS BIGINT) AS total_qty`).
		Joins("LEFT JOIN invitations ON invitations.category_id = categories.id").
		Group("categories.id, categories.name, categories.created_at").
		Order("categories.id").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory inserts a category with a unique name.
func (s *Store) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return models.Category{}, err
	}
	c := models.Category{Name: name}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.Category{}, fmt.Errorf("category %q %w", name, ErrConflict)
		}
		return models.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

// FindOrCreateCategory returns the category called name, creating it when missing.
func (s *Store) FindOrCreateCategory(ctx context.Context, name string) (models.Category, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return models.Category{}, err
	}
	var c models.Category
	if err := s.db.WithContext(ctx).Where(models.Category{Name: name}).FirstOrCreate(&c).Error; err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// UpdateCategory renames category id.
func (s *Store) UpdateCategory(ctx context.Context, id uint, name string) (models.Category, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return models.Category{}, err
	}
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return models.Category{}, notFound(err, "category")
	}
	if err := s.db.WithContext(ctx).Model(&c).Update("name", name).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.Category{}, fmt.Errorf("category %q %w", name, ErrConflict)
		}
		return models.Category{}, fmt.Errorf("update category %d: %w", id, err)
	}
	c.Name = name
	return c, nil
}

// DeleteCategory removes category id and its captions. Invitations keep existing
// without a category.
func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Invitation{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.Caption{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("category %w", ErrNotFound)
		}
		return nil
	})
}
