package models

import "time"

// Message is a congratulatory note left by a guest.
type Message struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	InvitationID uint       `gorm:"not null;index" json:"invitation_id"`
	Invitation   Invitation `gorm:"foreignKey:InvitationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Message      string     `gorm:"type:text;not null" json:"message"`
}
