package models

import "time"

// Checkin is the scan log of one invitation. There is at most one row per invitation;
// later scans update it in place.
type Checkin struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	InvitationID uint       `gorm:"not null;uniqueIndex" json:"invitation_id"`
	Invitation   Invitation `gorm:"foreignKey:InvitationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ScanCount    int        `gorm:"not null;default:1" json:"scan_count"`
	CheckedInQty int        `gorm:"column:checked_in_qty;not null" json:"checked_in_qty"`
	DeviceNote   string     `gorm:"size:255" json:"device_note"`
}
