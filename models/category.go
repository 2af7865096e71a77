package models

import "time"

// Category groups invitations (family, friends, office...) and selects their caption.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

// Caption is greeting text for a category. Only the newest active caption of a
// category is shown. IsActive has no column default so that false is persisted.
type Caption struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	Category   Category  `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Caption    string    `gorm:"type:text;not null" json:"caption"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
}

func (Caption) TableName() string { return "caption" }
