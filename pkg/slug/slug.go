// Package slug generates the opaque identifiers embedded in invitation links and QR codes.
package slug

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultBase replaces an empty guest name.
const DefaultBase = "tamu"

const maxBaseLen = 48

// ErrExhausted is returned when every attempt collided with an existing slug.
var ErrExhausted = errors.New("slug: no free slug after max attempts")

// Style selects how candidates are built.
type Style string

const (
	// StyleName is "<folded-guest-name>-<digits>".
	StyleName Style = "name"
	// StyleNumeric is a fixed-length string of digits.
	StyleNumeric Style = "numeric"
)

// ExistsFunc reports whether a candidate is already taken.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Generator builds candidates and checks them against the store.
type Generator struct {
	Style        Style
	Length       int // digits for StyleNumeric
	SuffixLength int // digits appended for StyleName
	MaxAttempts  int
	// Digits returns n random decimal digits. Defaults to crypto/rand.
	Digits func(n int) (string, error)
}

// Candidate returns one candidate for name without checking uniqueness.
func (g Generator) Candidate(name string) (string, error) {
	digits := g.Digits
	if digits == nil {
		digits = RandomDigits
	}
	if g.Style == StyleNumeric {
		return digits(g.Length)
	}
	suffix, err := digits(g.SuffixLength)
	if err != nil {
		return "", err
	}
	return Base(name) + "-" + suffix, nil
}

// Allocate returns the first candidate that exists reports as free. It gives up
// with ErrExhausted after MaxAttempts collisions.
func (g Generator) Allocate(ctx context.Context, name string, exists ExistsFunc) (string, error) {
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		cand, err := g.Candidate(name)
		if err != nil {
			return "", fmt.Errorf("generate slug: %w", err)
		}
		taken, err := exists(ctx, cand)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", cand, err)
		}
		if !taken {
			return cand, nil
		}
	}
	return "", ErrExhausted
}

// Base folds name to lowercase ASCII, replaces runs of other characters with a
// single '-', and falls back to DefaultBase when nothing is left.
func Base(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > maxBaseLen {
		out = strings.TrimRight(out[:maxBaseLen], "-")
	}
	if out == "" {
		return DefaultBase
	}
	return out
}

// RandomDigits returns n uniformly random decimal digits.
func RandomDigits(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid digit count %d", n)
	}
	ten := big.NewInt(10)
	buf := make([]byte, n)
	for i := range buf {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + d.Int64())
	}
	return string(buf), nil
}
