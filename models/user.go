package models

import (
	"time"
)

// User is a login account bound to exactly one role.
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string `gorm:"size:255;not null;unique"`
	HashedPassword []byte `gorm:"not null"`
	RoleID         *uint  `gorm:"index"`
	Role           Role   `gorm:"foreignKey:RoleID;references:ID"`
}
