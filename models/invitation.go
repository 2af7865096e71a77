package models

import "time"

// RSVPStatus is the guest's reply to the invitation.
type RSVPStatus string

const (
	RSVPBelumKonfirmasi RSVPStatus = "Belum Konfirmasi"
	RSVPHadir           RSVPStatus = "Hadir"
	RSVPTidakHadir      RSVPStatus = "Tidak Hadir"
)

// RSVPStatuses lists every accepted status in display order.
var RSVPStatuses = []RSVPStatus{RSVPBelumKonfirmasi, RSVPHadir, RSVPTidakHadir}

func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPBelumKonfirmasi, RSVPHadir, RSVPTidakHadir:
		return true
	}
	return false
}

// DeliveryType tells whether the invitation is sent as a link or printed.
type DeliveryType string

const (
	DeliveryDigital DeliveryType = "digital"
	DeliveryCetak   DeliveryType = "cetak"
)

// DeliveryTypes lists every accepted delivery type.
var DeliveryTypes = []DeliveryType{DeliveryDigital, DeliveryCetak}

func (t DeliveryType) Valid() bool {
	return t == DeliveryDigital || t == DeliveryCetak
}

// Invitation is a single guest entry. Slug is generated once on creation and never changes.
type Invitation struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	From       string       `gorm:"column:from;size:255" json:"from"`
	Name       string       `gorm:"size:255;not null" json:"name"`
	CategoryID *uint        `gorm:"index" json:"category_id"`
	Category   *Category    `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	Phone      string       `gorm:"size:64" json:"phone"`
	Qty        int          `gorm:"not null;default:1" json:"qty"`
	Type       DeliveryType `gorm:"size:16;not null;index" json:"type"`
	Slug       string       `gorm:"size:128;not null;uniqueIndex" json:"slug"`
	QRURL      string       `gorm:"column:qr_url;size:1024" json:"qr_url"`
	RSVPStatus RSVPStatus   `gorm:"column:rsvp_status;size:32;not null;default:'Belum Konfirmasi';index" json:"rsvp_status"`
	CheckedIn  bool         `gorm:"not null;default:false;index" json:"checked_in"`
	// CheckinTime is refreshed on every scan, not only the first one.
	CheckinTime *time.Time `gorm:"column:checkin_time" json:"checkin_time"`
	// RealQty stays nil until an RSVP or the first check-in sets it.
	RealQty          *int `gorm:"column:real_qty" json:"real_qty"`
	IsSent           bool `gorm:"not null;default:false" json:"is_sent"`
	IsCopied         bool `gorm:"not null;default:false" json:"is_copied"`
	StatusPengiriman bool `gorm:"column:status_pengiriman;not null;default:false" json:"status_pengiriman"`
}

// AttendeeQty returns the confirmed quantity when known, otherwise the invited one.
func (inv Invitation) AttendeeQty() int {
	if inv.RealQty != nil {
		return *inv.RealQty
	}
	return inv.Qty
}
