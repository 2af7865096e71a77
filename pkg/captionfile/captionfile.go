// Package captionfile keeps the caption catalog in sync with a YAML file.
//
// The file looks like:
//
//	captions:
//	  - category: Keluarga
//	    caption: "Yth. {nama}, kami mengundang Anda. {link}"
//	    active: true
package captionfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// DefaultDebounce is how long the file must stay quiet before it is re-applied.
const DefaultDebounce = 300 * time.Millisecond

// Entry is one caption of a category.
type Entry struct {
	Category string `yaml:"category"`
	Caption  string `yaml:"caption"`
	Active   *bool  `yaml:"active"`
}

// IsActive defaults to true when the flag is omitted.
func (e Entry) IsActive() bool {
	return e.Active == nil || *e.Active
}

// File is the parsed document.
type File struct {
	Captions []Entry `yaml:"captions"`
}

// Syncer stores one caption. It reports whether anything changed.
type Syncer interface {
	SyncCaption(ctx context.Context, categoryName, text string, active bool) (bool, error)
}

// Load reads and validates path.
func Load(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	return Parse(raw)
}

// Parse decodes a caption document. Unknown keys are rejected so typos surface.
func Parse(raw []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("parse caption file: %w", err)
	}
	for i, e := range f.Captions {
		if strings.TrimSpace(e.Category) == "" {
			return File{}, fmt.Errorf("captions[%d]: category is required", i)
		}
		if strings.TrimSpace(e.Caption) == "" {
			return File{}, fmt.Errorf("captions[%d]: caption is required", i)
		}
	}
	return f, nil
}

// Apply writes every entry through s and returns how many changed.
func Apply(ctx context.Context, s Syncer, f File) (int, error) {
	changed := 0
	for i, e := range f.Captions {
		ok, err := s.SyncCaption(ctx, e.Category, e.Caption, e.IsActive())
		if err != nil {
			return changed, fmt.Errorf("captions[%d] (%s): %w", i, e.Category, err)
		}
		if ok {
			changed++
		}
	}
	return changed, nil
}

// Sync loads path and applies it.
func Sync(ctx context.Context, s Syncer, path string) (int, error) {
	f, err := Load(path)
	if err != nil {
		return 0, err
	}
	return Apply(ctx, s, f)
}

// Watch applies path once and then again after every change until ctx is done.
// The parent directory is watched so editors that replace the file are seen too.
// Errors after the first sync are logged, not returned.
func Watch(ctx context.Context, s Syncer, path string, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	n, err := Sync(ctx, s, path)
	if err != nil {
		return err
	}
	log.Info().Str("file", path).Int("changed", n).Msg("caption file applied")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()
		var pending time.Time
		ticker := time.NewTicker(debounce / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					pending = time.Now()
				}
			case <-ticker.C:
				if pending.IsZero() || time.Since(pending) < debounce {
					continue
				}
				pending = time.Time{}
				n, err := Sync(ctx, s, path)
				if err != nil {
					log.Error().Err(err).Str("file", path).Msg("caption file reload failed")
					continue
				}
				log.Info().Str("file", path).Int("changed", n).Msg("caption file reloaded")
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Str("file", path).Msg("caption watch error")
			}
		}
	}()
	return nil
}
