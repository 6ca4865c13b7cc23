// Package store holds the uploaded thumbnails and the viewer settings. It
// replaces a process-wide singleton: callers construct one and pass it in.
package store

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/corona10/goimagehash"
	"github.com/google/uuid"

	apperrors "github.com/anime-shed/thumbnail-inspector-go/internal/errors"
)

const (
	DefaultLimit             = 5
	DefaultDuplicateDistance = 10
	DefaultLanguage          = "en"
)

// SupportedLanguages lists the accepted interface language codes
var SupportedLanguages = []string{"en", "zh", "hi", "es", "ar", "pt", "id", "fr", "ja", "ru"}

// RandomSource returns values in [0,1)
type RandomSource func() float64

// Settings are the viewer preferences
type Settings struct {
	Language         string `json:"language"`
	DarkMode         bool   `json:"dark_mode"`
	TestPageDarkMode bool   `json:"test_page_dark_mode"`
}

// Option configures a Store
type Option func(*Store)

// WithLimit caps the number of thumbnails. Values below 1 are ignored.
func WithLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithRandom replaces the source of the simulated CTR and views
func WithRandom(src RandomSource) Option {
	return func(s *Store) {
		if src != nil {
			s.random = src
		}
	}
}

// WithDuplicateDistance sets the dHash distance under which an upload is
// flagged as a near-duplicate of an earlier one. Zero disables the check.
func WithDuplicateDistance(d int) Option {
	return func(s *Store) {
		if d >= 0 {
			s.duplicateDistance = d
		}
	}
}

// WithClock replaces time.Now for CreatedAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is safe for concurrent use
type Store struct {
	mu         sync.RWMutex
	thumbnails []Thumbnail
	settings   Settings

	limit             int
	duplicateDistance int
	random            RandomSource
	now               func() time.Time
}

// New creates an empty store with both dark mode flags on
func New(opts ...Option) *Store {
	s := &Store{
		thumbnails:        []Thumbnail{},
		settings:          Settings{Language: DefaultLanguage, DarkMode: true, TestPageDarkMode: true},
		limit:             DefaultLimit,
		duplicateDistance: DefaultDuplicateDistance,
		random:            rand.Float64,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limit returns the configured capacity
func (s *Store) Limit() int {
	return s.limit
}

// Add stores a new thumbnail. It fails with a conflict error when the store
// is full.
func (s *Store) Add(n NewThumbnail) (Thumbnail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.thumbnails) >= s.limit {
		return Thumbnail{}, apperrors.NewConflictError(
			fmt.Sprintf("at most %d thumbnails can be stored", s.limit), ErrStoreFull)
	}

	t := Thumbnail{
		ID:             uuid.NewString(),
		Title:          n.Title,
		FileName:       n.FileName,
		ContentType:    n.ContentType,
		Size:           n.Size,
		Width:          n.Analysis.Width,
		Height:         n.Analysis.Height,
		Analysis:       n.Analysis,
		Metadata:       n.Metadata,
		SimulatedCTR:   s.random()*15 + 5,
		SimulatedViews: int(math.Floor(s.random() * 1_000_000)),
		CreatedAt:      s.now(),
		preview:        n.Preview,
		hash:           n.Hash,
	}
	if n.Hash != nil {
		t.PerceptualHash = n.Hash.ToString()
		t.DuplicateOf = s.findDuplicate(n.Hash)
	}

	s.thumbnails = append(s.thumbnails, t.clone())
	return t, nil
}

// findDuplicate returns the ID of the first stored thumbnail whose hash is
// closer than the duplicate distance. Caller holds the lock.
func (s *Store) findDuplicate(hash *goimagehash.ImageHash) string {
	if s.duplicateDistance == 0 {
		return ""
	}
	for _, existing := range s.thumbnails {
		if d, ok := HashDistance(hash, existing.hash); ok && d < s.duplicateDistance {
			return existing.ID
		}
	}
	return ""
}

// Remove deletes a thumbnail. Thumbnails flagged as its duplicate keep the
// reference.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	s.thumbnails = append(s.thumbnails[:i], s.thumbnails[i+1:]...)
	return nil
}

// UpdateTitle replaces the title of one thumbnail
func (s *Store) UpdateTitle(id, title string) (Thumbnail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Thumbnail{}, notFound(id)
	}
	s.thumbnails[i].Title = title
	return s.thumbnails[i].clone(), nil
}

// List returns the thumbnails in insertion order
func (s *Store) List() []Thumbnail {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Thumbnail, len(s.thumbnails))
	for i, t := range s.thumbnails {
		out[i] = t.clone()
	}
	return out
}

// Get returns one thumbnail
func (s *Store) Get(id string) (Thumbnail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Thumbnail{}, notFound(id)
	}
	return s.thumbnails[i].clone(), nil
}

// Len returns the number of stored thumbnails
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.thumbnails)
}

// Settings returns the current viewer settings
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetLanguage switches the interface language
func (s *Store) SetLanguage(code string) error {
	if !IsSupportedLanguage(code) {
		return apperrors.NewValidationError(
			fmt.Sprintf("language %q is not supported", code), ErrUnsupportedLanguage)
	}

	s.mu.Lock()
	s.settings.Language = code
	s.mu.Unlock()
	return nil
}

// ToggleDarkMode flips the main dark mode flag and returns the new value
func (s *Store) ToggleDarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.DarkMode = !s.settings.DarkMode
	return s.settings.DarkMode
}

// ToggleTestPageDarkMode flips the simulated feed's dark mode flag
func (s *Store) ToggleTestPageDarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.TestPageDarkMode = !s.settings.TestPageDarkMode
	return s.settings.TestPageDarkMode
}

// IsSupportedLanguage reports whether code is one of SupportedLanguages
func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}

func (s *Store) indexOf(id string) int {
	for i := range s.thumbnails {
		if s.thumbnails[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("thumbnail %s not found", id), ErrThumbnailNotFound)
}
