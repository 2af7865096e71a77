package store

import (
	"context"

	"undangan/models"
)

// TypeSummary counts invitations of one delivery type.
type TypeSummary struct {
	Count int64 `json:"count"`
	Qty   int64 `json:"qty"`
}

// RSVPSummary counts invitations in one RSVP status.
type RSVPSummary struct {
	Count int64 `json:"count"`
	// Qty sums the confirmed quantity, falling back to the invited quantity.
	Qty int64 `json:"qty"`
}

// Summary is the dashboard rollup. Fields named Not* are derived, never queried.
type Summary struct {
	TotalInvitations  int64                               `json:"total_invitations"`
	TotalQty          int64                               `json:"total_qty"`
	CheckedInCount    int64                               `json:"checked_in_count"`
	CheckedInQty      int64                               `json:"checked_in_qty"`
	NotCheckedInCount int64                               `json:"not_checked_in_count"`
	NotCheckedInQty   int64                               `json:"not_checked_in_qty"`
	ByType            map[models.DeliveryType]TypeSummary `json:"by_type"`
	ByRSVP            map[models.RSVPStatus]RSVPSummary   `json:"by_rsvp"`
}

type summaryRow struct {
	Total            int64
	TotalQty         int64
	CheckedIn        int64
	CheckedInQty     int64
	CheckedInInvited int64
	DigitalCount     int64
	DigitalQty       int64
	CetakCount       int64
	CetakQty         int64
	BelumCount       int64
	BelumQty         int64
	HadirCount       int64
	HadirQty         int64
	TidakHadirCount  int64
	TidakHadirQty    int64
}

const summarySQL = `SELECT
	COUNT(*) AS total,
	CAST(COALESCE(SUM(qty), 0) AS BIGINT) AS total_qty,
	CAST(COALESCE(SUM(CASE WHEN checked_in THEN 1 ELSE 0 END), 0) AS BIGINT) AS checked_in,
	CAST(COALESCE(SUM(CASE WHEN checked_in THEN COALESCE(real_qty, qty) ELSE 0 END), 0) AS BIGINT) AS checked_in_qty,
	CAST(COALESCE(SUM(CASE WHEN checked_in THEN qty ELSE 0 END), 0) AS BIGINT) AS checked_in_invited,
	CAST(COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS digital_count,
	CAST(COALESCE(SUM(CASE WHEN type = ? THEN qty ELSE 0 END), 0) AS BIGINT) AS digital_qty,
	CAST(COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS cetak_count,
	CAST(COALESCE(SUM(CASE WHEN type = ? THEN qty ELSE 0 END), 0) AS BIGINT) AS cetak_qty,
	CAST(COALESCE(SUM(CASE WHEN rsvp_status = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS belum_count,
	CAST(COALESCE(SUM(CASE WHEN rsvp_status = ? THEN qty ELSE 0 END), 0) AS BIGINT) AS belum_qty,
	CAST(COALESCE(SUM(CASE WHEN rsvp_status = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS hadir_count,
	CAST(COALESCE(SUM(CASE WHEN rsvp_status = ? THEN COALESCE(real_qty, qty) ELSE 0 END), 0) AS BIGINT) AS hadir_qty,
	CAST(COALESCE(SUM(CASE WHEN rsvp_status = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS tidak_hadir_count,
	CAST(COALESCE(SUM(CASE WHEN rsvp_status = ? THEN COALESCE(real_qty, 0) ELSE 0 END), 0) AS BIGINT) AS tidak_hadir_qty
FROM invitations`

// Summary aggregates the whole invitations table in one query. Every number is zero,
// never null, on an empty table.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	var r summaryRow
	err := s.db.WithContext(ctx).Raw(summarySQL,
		models.DeliveryDigital, models.DeliveryDigital,
		models.DeliveryCetak, models.DeliveryCetak,
		models.RSVPBelumKonfirmasi, models.RSVPBelumKonfirmasi,
		models.RSVPHadir, models.RSVPHadir,
		models.RSVPTidakHadir, models.RSVPTidakHadir,
	).Scan(&r).Error
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		TotalInvitations:  r.Total,
		TotalQty:          r.TotalQty,
		CheckedInCount:    r.CheckedIn,
		CheckedInQty:      r.CheckedInQty,
		NotCheckedInCount: r.Total - r.CheckedIn,
		NotCheckedInQty:   r.TotalQty - r.CheckedInInvited,
		ByType: map[models.DeliveryType]TypeSummary{
			models.DeliveryDigital: {Count: r.DigitalCount, Qty: r.DigitalQty},
			models.DeliveryCetak:   {Count: r.CetakCount, Qty: r.CetakQty},
		},
		ByRSVP: map[models.RSVPStatus]RSVPSummary{
			models.RSVPBelumKonfirmasi: {Count: r.BelumCount, Qty: r.BelumQty},
			models.RSVPHadir:           {Count: r.HadirCount, Qty: r.HadirQty},
			models.RSVPTidakHadir:      {Count: r.TidakHadirCount, Qty: r.TidakHadirQty},
		},
	}, nil
}
