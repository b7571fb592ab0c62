package theme

import (
	"sync"

	"github.com/go-faster/errors"
)

// Mode is the display mode of the storefront.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// Valid reports whether m is one of the two defined modes.
func (m Mode) Valid() bool {
	return m == ModeLight || m == ModeDark
}

// ErrInvalidMode is returned by Set when the mode is outside the closed
// {light, dark} domain.
var ErrInvalidMode = errors.New("invalid theme mode")

// ErrNotPersisted is returned by Persister.Load when no value has been
// saved yet.
var ErrNotPersisted = errors.New("theme mode not persisted")

// Persister stores the mode durably under a fixed key so the next session
// starts from the saved value instead of re-deriving a default.
type Persister interface {
	Load() (Mode, error)
	Save(Mode) error
}

// DetectFunc reports the platform's preferred mode. It is only consulted
// when no persisted value exists.
type DetectFunc func() Mode

// Store is the single source of truth for the display mode. The mode is
// initialized from the persisted value when one exists, from the detection
// hook otherwise, and every change is written through to the persister.
type Store struct {
	mu      sync.Mutex
	mode    Mode
	persist Persister
}

// NewStore builds a theme store. A persister load failure other than
// ErrNotPersisted is surfaced to the caller; a missing value falls back to
// detect.
func NewStore(p Persister, detect DetectFunc) (*Store, error) {
	mode, err := p.Load()
	switch {
	case err == nil:
		if !mode.Valid() {
			mode = detect()
		}
	case errors.Is(err, ErrNotPersisted):
		mode = detect()
	default:
		return nil, errors.Wrap(err, "load persisted theme")
	}
	return &Store{mode: mode, persist: p}, nil
}

// Mode returns the current mode.
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Toggle flips between light and dark and persists the result.
func (s *Store) Toggle() (Mode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := ModeLight
	if s.mode == ModeLight {
		next = ModeDark
	}
	return s.setLocked(next)
}

// Set stores exactly the given mode and persists it.
func (s *Store) Set(mode Mode) (Mode, error) {
	if !mode.Valid() {
		return "", ErrInvalidMode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(mode)
}

func (s *Store) setLocked(mode Mode) (Mode, error) {
	if err := s.persist.Save(mode); err != nil {
		return s.mode, errors.Wrap(err, "persist theme")
	}
	s.mode = mode
	return s.mode, nil
}
