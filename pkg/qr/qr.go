// Package qr derives invitation links and renders their QR codes.
package qr

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/skip2/go-qrcode"
)

const (
	MinSize = 128
	MaxSize = 2048
)

// Links builds the public URLs for a slug.
type Links struct {
	BaseLink    string
	ConfirmPath string
	InvitePath  string
	QREndpoint  string
	QRSize      int
}

// Confirm is the RSVP/check-in URL encoded into the QR code.
func (l Links) Confirm(slug string) string {
	return joinURL(l.BaseLink, l.ConfirmPath, slug)
}

// Invite is the URL the guest opens to read the invitation.
func (l Links) Invite(slug, guestName string) string {
	u := joinURL(l.BaseLink, l.InvitePath, slug)
	if guestName == "" {
		return u
	}
	return u + "?to=" + url.QueryEscape(guestName)
}

// ImageURL points at the external QR rendering endpoint for the confirm link.
func (l Links) ImageURL(slug string) string {
	size := l.QRSize
	if size <= 0 {
		size = 300
	}
	q := url.Values{}
	q.Set("size", fmt.Sprintf("%dx%d", size, size))
	q.Set("data", l.Confirm(slug))
	sep := "?"
	if strings.Contains(l.QREndpoint, "?") {
		sep = "&"
	}
	return l.QREndpoint + sep + q.Encode()
}

func joinURL(base, path, slug string) string {
	base = strings.TrimRight(base, "/")
	path = strings.Trim(path, "/")
	if path == "" {
		return base + "/" + url.PathEscape(slug)
	}
	return base + "/" + path + "/" + url.PathEscape(slug)
}

// Render draws content as a QR code centred on a white square of size pixels
// with a quiet margin of one tenth of the size.
func Render(content string, size int) (image.Image, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("qr size %d out of range [%d, %d]", size, MinSize, MaxSize)
	}
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	code.DisableBorder = true
	inner := size - 2*(size/10)
	img := code.Image(inner)
	// go-qrcode rounds to whole modules, so the bitmap can be smaller than asked
	if b := img.Bounds(); b.Dx() != inner {
		img = imaging.Resize(img, inner, inner, imaging.NearestNeighbor)
	}
	canvas := imaging.New(size, size, color.White)
	return imaging.PasteCenter(canvas, img), nil
}

// WritePNG renders content and encodes it as PNG into w.
func WritePNG(w io.Writer, content string, size int) error {
	img, err := Render(content, size)
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, imaging.PNG)
}
