package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"undangan/models"
)

func TestResolveQty(t *testing.T) {
	inv := models.Invitation{Qty: 4}
	require.Equal(t, 4, resolveQty(nil, inv))
	require.Equal(t, 2, resolveQty(intp(2), inv))
	require.Equal(t, 4, resolveQty(intp(0), inv))

	inv.RealQty = intp(6)
	require.Equal(t, 6, resolveQty(nil, inv))
	require.Equal(t, 3, resolveQty(intp(3), inv))

	inv.RealQty = intp(0)
	require.Equal(t, 4, resolveQty(nil, inv))
}

func TestCheckinFirstThenRepeat(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, "Joko", 4)

	first, err := s.Checkin(ctx, c.Slug, CheckinInput{})
	require.NoError(t, err)
	require.True(t, first.First)
	require.Equal(t, "Joko", first.Name)
	require.Equal(t, 4, first.Qty)
	require.Equal(t, 1, first.ScanCount)
	require.True(t, first.CheckedIn)
	require.Equal(t, models.RSVPBelumKonfirmasi, first.RSVPStatus, "rsvp untouched by check-in")
	require.NotNil(t, first.RealQty)
	require.Equal(t, 4, *first.RealQty)
	require.True(t, first.CheckinTime.Equal(clock.Now()))

	clock.Advance(15 * time.Minute)
	second, err := s.Checkin(ctx, c.Slug, CheckinInput{Qty: intp(3), DeviceNote: "gate 2"})
	require.NoError(t, err)
	require.False(t, second.First)
	require.Equal(t, 3, second.Qty)
	require.Equal(t, 2, second.ScanCount)
	require.True(t, second.CheckedIn)
	require.True(t, second.CheckinTime.Equal(clock.Now()), "timestamp refreshed")
	require.True(t, second.CheckinTime.After(first.CheckinTime))
	require.Equal(t, 4, *second.RealQty, "confirmed qty from first scan preserved")

	log, err := s.CheckinLog(ctx, c.Slug)
	require.NoError(t, err)
	require.Equal(t, 2, log.ScanCount)
	require.Equal(t, 3, log.CheckedInQty)
	require.Equal(t, "gate 2", log.DeviceNote)

	clock.Advance(time.Minute)
	third, err := s.Checkin(ctx, c.Slug, CheckinInput{})
	require.NoError(t, err)
	require.Equal(t, 3, third.ScanCount)
	require.Equal(t, 4, third.Qty)
}

func TestCheckinKeepsRSVPAndConfirmedQty(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, "Kartika", 4)
	_, err := s.UpdateRSVP(ctx, c.Slug, RSVPInput{Status: "Hadir", Qty: intp(6)})
	require.NoError(t, err)

	res, err := s.Checkin(ctx, c.Slug, CheckinInput{Qty: intp(2)})
	require.NoError(t, err)
	require.True(t, res.First)
	require.Equal(t, 2, res.Qty)
	require.Equal(t, models.RSVPHadir, res.RSVPStatus)
	require.Equal(t, 6, *res.RealQty, "existing confirmed qty not overwritten")
}

func TestCheckinUsesConfirmedQty(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, "Lina", 4)
	_, err := s.UpdateRSVP(ctx, c.Slug, RSVPInput{Status: "Hadir", Qty: intp(2)})
	require.NoError(t, err)

	res, err := s.Checkin(ctx, c.Slug, CheckinInput{})
	require.NoError(t, err)
	require.Equal(t, 2, res.Qty)
}

func TestCheckinAfterDecline(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, "Wati", 4)

	_, err := s.UpdateRSVP(ctx, c.Slug, RSVPInput{Status: string(models.RSVPTidakHadir)})
	require.NoError(t, err)

	res, err := s.Checkin(ctx, c.Slug, CheckinInput{})
	require.NoError(t, err)
	require.True(t, res.First)
	require.Equal(t, 4, res.Qty)
	require.NotNil(t, res.RealQty)
	require.Equal(t, 4, *res.RealQty, "zero confirmed qty is filled like an unset one")
	require.Equal(t, models.RSVPTidakHadir, res.RSVPStatus)

	sum, err := s.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), sum.CheckedInCount)
	require.Equal(t, int64(4), sum.CheckedInQty)
}

func TestCheckinNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Checkin(context.Background(), "ghost", CheckinInput{})
	require.ErrorIs(t, err, ErrNotFound)

	var n int64
	require.NoError(t, s.DB().Model(&models.Checkin{}).Count(&n).Error)
	require.Zero(t, n)
}

func TestCheckinRejectsNegativeQty(t *testing.T) {
	s, _ := newTestStore(t)
	c := mustCreate(t, s, "Made", 2)
	_, err := s.Checkin(context.Background(), c.Slug, CheckinInput{Qty: intp(-1)})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "checked_in_qty", ve.Field)
}

func TestCheckinConcurrentScans(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, "Nanda", 2)

	const scans = 8
	results := make([]CheckinResult, scans)
	errs := make([]error, scans)
	var wg sync.WaitGroup
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.Checkin(ctx, c.Slug, CheckinInput{})
		}(i)
	}
	wg.Wait()

	firsts := 0
	counts := map[int]bool{}
	for i := range results {
		require.NoError(t, errs[i])
		if results[i].First {
			firsts++
		}
		counts[results[i].ScanCount] = true
	}
	require.Equal(t, 1, firsts)
	for i := 1; i <= scans; i++ {
		require.True(t, counts[i], "scan count %d missing", i)
	}
	log, err := s.CheckinLog(ctx, c.Slug)
	require.NoError(t, err)
	require.Equal(t, scans, log.ScanCount)
}
