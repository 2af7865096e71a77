package models

import "time"

// Role names the session an account gets at login. The name doubles as the cookie
// suffix, so it is one of RoleNameClient or RoleNameUser.
type Role struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string `gorm:"size:32;uniqueIndex;not null"`
	// Description is shown to whoever provisions accounts.
	Description string `gorm:"size:255"`
}

const (
	// RoleNameClient is the couple or organizer managing the guest list.
	RoleNameClient = "client"
	// RoleNameUser is reception staff scanning QR codes at the door.
	RoleNameUser = "user"
)
