package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"undangan/models"
)

// CheckinInput is one QR scan. Qty, when positive, overrides the recorded attendee count.
type CheckinInput struct {
	Qty        *int
	DeviceNote string
}

// CheckinResult reports the state after a scan.
type CheckinResult struct {
	First       bool              `json:"first"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Qty         int               `json:"qty"`
	ScanCount   int               `json:"scan_count"`
	CheckedIn   bool              `json:"checked_in"`
	CheckinTime time.Time         `json:"checkin_time"`
	RSVPStatus  models.RSVPStatus `json:"rsvp_status"`
	RealQty     *int              `json:"real_qty"`
}

// resolveQty picks the override, then the confirmed quantity, then the invited quantity.
// Zero counts as "not given" at every step.
func resolveQty(override *int, inv models.Invitation) int {
	if override != nil && *override > 0 {
		return *override
	}
	if inv.RealQty != nil && *inv.RealQty > 0 {
		return *inv.RealQty
	}
	return inv.Qty
}

// Checkin records a scan of invitation sl in a single transaction.
//
// The first scan flips checked_in through an update guarded by checked_in = false, so
// only one of several concurrent scans can win it; it also fills real_qty when still
// unset or zero, matching resolveQty. Every scan upserts the one log row per invitation, incrementing scan_count and
// overwriting the recorded quantity and device note. RSVP status is never changed.
func (s *Store) Checkin(ctx context.Context, sl string, in CheckinInput) (CheckinResult, error) {
	if in.Qty != nil && *in.Qty < 0 {
		return CheckinResult{}, invalid("checked_in_qty", "checked_in_qty cannot be negative")
	}

	var res CheckinResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var inv models.Invitation
		if err := q.Where("slug = ?", sl).First(&inv).Error; err != nil {
			return notFound(err, "invitation")
		}

		qty := resolveQty(in.Qty, inv)
		now := s.now()

		upd := tx.Model(&models.Invitation{}).
			Where("id = ? AND checked_in = ?", inv.ID, false).
			Updates(map[string]any{
				"checked_in":   true,
				"checkin_time": now,
				"real_qty":     gorm.Expr("CASE WHEN real_qty IS NULL OR real_qty = 0 THEN ? ELSE real_qty END", qty),
			})
		if upd.Error != nil {
			return fmt.Errorf("mark checked in: %w", upd.Error)
		}
		first := upd.RowsAffected == 1
		if !first {
			if err := tx.Model(&models.Invitation{}).Where("id = ?", inv.ID).
				Update("checkin_time", now).Error; err != nil {
				return fmt.Errorf("refresh checkin time: %w", err)
			}
		}

		entry := models.Checkin{
			InvitationID: inv.ID,
			ScanCount:    1,
			CheckedInQty: qty,
			DeviceNote:   in.DeviceNote,
		}
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "invitation_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"scan_count":     gorm.Expr("checkins.scan_count + 1"),
				"checked_in_qty": qty,
				"device_note":    in.DeviceNote,
				"updated_at":     now,
			}),
		}).Create(&entry).Error; err != nil {
			return fmt.Errorf("upsert checkin log: %w", err)
		}

		var saved models.Checkin
		if err := tx.Where("invitation_id = ?", inv.ID).First(&saved).Error; err != nil {
			return fmt.Errorf("reload checkin log: %w", err)
		}
		if err := tx.First(&inv, inv.ID).Error; err != nil {
			return fmt.Errorf("reload invitation: %w", err)
		}

		res = CheckinResult{
			First:      first,
			Name:       inv.Name,
			Slug:       inv.Slug,
			Qty:        saved.CheckedInQty,
			ScanCount:  saved.ScanCount,
			CheckedIn:  inv.CheckedIn,
			RSVPStatus: inv.RSVPStatus,
			RealQty:    inv.RealQty,
		}
		if inv.CheckinTime != nil {
			res.CheckinTime = *inv.CheckinTime
		}
		return nil
	})
	return res, err
}

// CheckinLog returns the scan log of invitation sl.
func (s *Store) CheckinLog(ctx context.Context, sl string) (models.Checkin, error) {
	inv, err := s.invitationBySlug(ctx, s.db, sl)
	if err != nil {
		return models.Checkin{}, err
	}
	var ck models.Checkin
	if err := s.db.WithContext(ctx).Where("invitation_id = ?", inv.ID).First(&ck).Error; err != nil {
		return models.Checkin{}, notFound(err, "checkin")
	}
	return ck, nil
}
