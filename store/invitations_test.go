package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"undangan/models"
	"undangan/pkg/slug"
)

func TestCreateInvitation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateInvitation(ctx, InvitationInput{From: "Keluarga Budi", Name: "Siti Aminah", Phone: "0812", Qty: intp(4), Type: "digital"})
	require.NoError(t, err)
	require.NotZero(t, c.ID)
	require.True(t, strings.HasPrefix(c.Slug, "siti-aminah-"), c.Slug)
	require.Equal(t, "https://nikah.example/konfirmasi/"+c.Slug, c.Link)
	require.Contains(t, c.QRURL, "api.qrserver.com")
	require.Contains(t, c.InviteLink, "to=Siti+Aminah")

	d, err := s.GetBySlug(ctx, c.Slug, Includes{})
	require.NoError(t, err)
	require.Equal(t, models.RSVPBelumKonfirmasi, d.RSVPStatus)
	require.False(t, d.CheckedIn)
	require.Nil(t, d.RealQty)
	require.Nil(t, d.CheckinTime)
	require.Equal(t, 4, d.Qty)
	require.Equal(t, "Keluarga Budi", d.From)
}

func TestCreateInvitationDefaultsQty(t *testing.T) {
	s, _ := newTestStore(t)
	c, err := s.CreateInvitation(context.Background(), InvitationInput{Name: "Andi", Type: "cetak"})
	require.NoError(t, err)
	d, err := s.GetBySlug(context.Background(), c.Slug, Includes{})
	require.NoError(t, err)
	require.Equal(t, 1, d.Qty)
	require.Equal(t, models.DeliveryCetak, d.Type)
}

func TestCreateInvitationValidation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    InvitationInput
		field string
	}{
		{"missing name", InvitationInput{Type: "digital"}, "name"},
		{"blank name", InvitationInput{Name: "   ", Type: "digital"}, "name"},
		{"missing type", InvitationInput{Name: "Budi"}, "type"},
		{"unknown type", InvitationInput{Name: "Budi", Type: "email"}, "type"},
		{"case sensitive type", InvitationInput{Name: "Budi", Type: "Digital"}, "type"},
		{"zero qty", InvitationInput{Name: "Budi", Type: "digital", Qty: intp(0)}, "qty"},
		{"unknown category", InvitationInput{Name: "Budi", Type: "digital", CategoryID: uintp(99)}, "category_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateInvitation(ctx, tt.in)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			require.Equal(t, tt.field, ve.Field)
		})
	}

	items, err := s.ListInvitations(ctx, InvitationFilter{})
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCreateInvitationSlugsAreUnique(t *testing.T) {
	s, _ := newTestStore(t)
	seen := map[string]bool{}
	for i := 0; i < 25; i++ {
		c := mustCreate(t, s, "Budi", 2)
		require.False(t, seen[c.Slug], "duplicate slug %s", c.Slug)
		seen[c.Slug] = true
	}
}

func TestCreateInvitationSlugExhausted(t *testing.T) {
	s, _ := newTestStore(t)
	draws := 0
	s.slugs = slug.Generator{Style: slug.StyleNumeric, Length: 6, MaxAttempts: 3,
		Digits: func(n int) (string, error) {
			draws++
			return "123456"[:n], nil
		}}

	first, err := s.CreateInvitation(context.Background(), InvitationInput{Name: "A", Type: "digital"})
	require.NoError(t, err)
	require.Equal(t, "123456", first.Slug)

	draws = 0
	_, err = s.CreateInvitation(context.Background(), InvitationInput{Name: "B", Type: "digital"})
	require.ErrorIs(t, err, slug.ErrExhausted)
	require.Equal(t, 3, draws, "one attempt budget across allocation and insert")
}

func TestListInvitationsFilters(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, "Keluarga")
	require.NoError(t, err)
	a, err := s.CreateInvitation(ctx, InvitationInput{Name: "Ani", Type: "digital", CategoryID: &cat.ID, Phone: "08123"})
	require.NoError(t, err)
	_, err = s.CreateInvitation(ctx, InvitationInput{Name: "Bayu", From: "Kantor", Type: "cetak"})
	require.NoError(t, err)
	c := mustCreate(t, s, "Citra", 3)

	_, err = s.UpdateRSVP(ctx, c.Slug, RSVPInput{Status: "Hadir"})
	require.NoError(t, err)
	_, err = s.Checkin(ctx, a.Slug, CheckinInput{})
	require.NoError(t, err)

	count := func(f InvitationFilter) int {
		items, err := s.ListInvitations(ctx, f)
		require.NoError(t, err)
		return len(items)
	}
	require.Equal(t, 3, count(InvitationFilter{}))
	require.Equal(t, 2, count(InvitationFilter{Type: "digital"}))
	require.Equal(t, 1, count(InvitationFilter{CategoryID: &cat.ID}))
	require.Equal(t, 1, count(InvitationFilter{CheckedIn: boolp(true)}))
	require.Equal(t, 2, count(InvitationFilter{CheckedIn: boolp(false)}))
	require.Equal(t, 1, count(InvitationFilter{RSVPStatus: "Hadir"}))
	require.Equal(t, 1, count(InvitationFilter{Search: "BAY"}))
	require.Equal(t, 1, count(InvitationFilter{Search: "kantor"}))
	require.Equal(t, 1, count(InvitationFilter{Search: "08123"}))

	items, err := s.ListInvitations(ctx, InvitationFilter{})
	require.NoError(t, err)
	require.Equal(t, "Citra", items[0].Name, "newest first")
	require.NotNil(t, items[2].Category)
	require.Equal(t, "Keluarga", items[2].Category.Name)

	_, err = s.ListInvitations(ctx, InvitationFilter{RSVPStatus: "maybe"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestGetBySlugNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.GetBySlug(context.Background(), "nope", Includes{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetBySlugIncludes(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	cat, err := s.CreateCategory(ctx, "Sahabat")
	require.NoError(t, err)
	_, err = s.CreateCaption(ctx, CaptionInput{CategoryID: cat.ID, Caption: "Halo {nama}"})
	require.NoError(t, err)
	c, err := s.CreateInvitation(ctx, InvitationInput{Name: "Dewi", From: "Rani", Type: "digital", CategoryID: &cat.ID})
	require.NoError(t, err)
	_, err = s.CreateMessage(ctx, MessageInput{Slug: c.Slug, Message: "Selamat!"})
	require.NoError(t, err)
	_, err = s.Checkin(ctx, c.Slug, CheckinInput{})
	require.NoError(t, err)

	d, err := s.GetBySlug(ctx, c.Slug, Includes{Caption: true, Checkins: true, Messages: true})
	require.NoError(t, err)
	require.NotNil(t, d.Caption)
	require.Equal(t, "Halo Dewi", d.Caption.Text)
	require.NotNil(t, d.Checkin)
	require.Equal(t, 1, d.Checkin.ScanCount)
	require.Len(t, d.Messages, 1)
	require.Equal(t, "Rani", d.Messages[0].From)

	plain, err := s.GetBySlug(ctx, c.Slug, Includes{})
	require.NoError(t, err)
	require.Nil(t, plain.Caption)
	require.Nil(t, plain.Checkin)
	require.Nil(t, plain.Messages)
}

func TestUpdateInvitation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, "Eko", 2)

	inv, err := s.UpdateInvitation(ctx, c.ID, InvitationInput{Name: "Eko Prasetyo", Type: "cetak", Qty: intp(5), Phone: "0899"})
	require.NoError(t, err)
	require.Equal(t, "Eko Prasetyo", inv.Name)
	require.Equal(t, models.DeliveryCetak, inv.Type)
	require.Equal(t, 5, inv.Qty)
	require.Equal(t, c.Slug, inv.Slug, "slug never changes")

	_, err = s.UpdateInvitation(ctx, 9999, InvitationInput{Name: "X", Type: "digital"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateInvitation(ctx, c.ID, InvitationInput{Name: "X", Type: "fax"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestUpdateDeliveryStatus(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, "Fajar", 1)

	inv, err := s.UpdateDeliveryStatus(ctx, c.Slug, DeliveryStatusInput{IsSent: boolp(true)})
	require.NoError(t, err)
	require.True(t, inv.IsSent)
	require.False(t, inv.IsCopied)

	inv, err = s.UpdateDeliveryStatus(ctx, c.Slug, DeliveryStatusInput{IsCopied: boolp(true), StatusPengiriman: boolp(true)})
	require.NoError(t, err)
	require.True(t, inv.IsSent, "untouched flag kept")
	require.True(t, inv.IsCopied)
	require.True(t, inv.StatusPengiriman)

	_, err = s.UpdateDeliveryStatus(ctx, c.Slug, DeliveryStatusInput{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = s.UpdateDeliveryStatus(ctx, "missing", DeliveryStatusInput{IsSent: boolp(true)})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRSVP(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, "Gita", 4)

	inv, err := s.UpdateRSVP(ctx, c.Slug, RSVPInput{Status: "Hadir", Qty: intp(6)})
	require.NoError(t, err)
	require.Equal(t, models.RSVPHadir, inv.RSVPStatus)
	require.NotNil(t, inv.RealQty)
	require.Equal(t, 6, *inv.RealQty)
	require.False(t, inv.CheckedIn)

	inv, err = s.UpdateRSVP(ctx, c.Slug, RSVPInput{Status: "Tidak Hadir", Qty: intp(3)})
	require.NoError(t, err)
	require.Equal(t, models.RSVPTidakHadir, inv.RSVPStatus)
	require.NotNil(t, inv.RealQty)
	require.Equal(t, 0, *inv.RealQty)

	inv, err = s.UpdateRSVP(ctx, c.Slug, RSVPInput{Status: "Hadir"})
	require.NoError(t, err)
	require.Nil(t, inv.RealQty)
}

func TestUpdateRSVPErrors(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, "Hana", 2)

	var ve *ValidationError
	_, err := s.UpdateRSVP(ctx, c.Slug, RSVPInput{})
	require.ErrorAs(t, err, &ve)
	_, err = s.UpdateRSVP(ctx, c.Slug, RSVPInput{Status: "Mungkin"})
	require.ErrorAs(t, err, &ve)
	_, err = s.UpdateRSVP(ctx, "unknown", RSVPInput{Status: "Hadir"})
	require.ErrorIs(t, err, ErrNotFound)

	d, err := s.GetBySlug(ctx, c.Slug, Includes{})
	require.NoError(t, err)
	require.Equal(t, models.RSVPBelumKonfirmasi, d.RSVPStatus)
}

func TestDeleteInvitation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, "Indra", 2)
	_, err := s.CreateMessage(ctx, MessageInput{InvitationID: &c.ID, Message: "Barakallah"})
	require.NoError(t, err)
	_, err = s.Checkin(ctx, c.Slug, CheckinInput{})
	require.NoError(t, err)

	require.NoError(t, s.DeleteInvitation(ctx, c.ID))
	_, err = s.GetBySlug(ctx, c.Slug, Includes{})
	require.ErrorIs(t, err, ErrNotFound)

	msgs, err := s.ListMessages(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, msgs)

	require.ErrorIs(t, s.DeleteInvitation(ctx, c.ID), ErrNotFound)
}
