package theme

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPersister is an in-memory Persister for tests.
type memPersister struct {
	mode    Mode
	has     bool
	loadErr error
	saveErr error
	saves   int
}

func (p *memPersister) Load() (Mode, error) {
	if p.loadErr != nil {
		return "", p.loadErr
	}
	if !p.has {
		return "", ErrNotPersisted
	}
	return p.mode, nil
}

func (p *memPersister) Save(mode Mode) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.mode = mode
	p.has = true
	p.saves++
	return nil
}

func detectDark() Mode { return ModeDark }

func TestNewStore_UsesPersistedValue(t *testing.T) {
	p := &memPersister{mode: ModeLight, has: true}

	s, err := NewStore(p, detectDark)
	require.NoError(t, err)

	assert.Equal(t, ModeLight, s.Mode(), "persisted value wins over detection")
}

func TestNewStore_FallsBackToDetection(t *testing.T) {
	s, err := NewStore(&memPersister{}, detectDark)
	require.NoError(t, err)

	assert.Equal(t, ModeDark, s.Mode())
}

func TestNewStore_PropagatesLoadError(t *testing.T) {
	p := &memPersister{loadErr: errors.New("disk on fire")}

	_, err := NewStore(p, detectDark)
	require.Error(t, err)
}

func TestToggle_FlipsAndPersists(t *testing.T) {
	p := &memPersister{mode: ModeLight, has: true}
	s, err := NewStore(p, detectDark)
	require.NoError(t, err)

	mode, err := s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, ModeDark, mode)
	assert.Equal(t, ModeDark, p.mode, "every change must be written through")

	mode, err = s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, ModeLight, mode)
	assert.Equal(t, 2, p.saves)
}

func TestSet(t *testing.T) {
	p := &memPersister{}
	s, err := NewStore(p, detectDark)
	require.NoError(t, err)

	mode, err := s.Set(ModeLight)
	require.NoError(t, err)
	assert.Equal(t, ModeLight, mode)
	assert.Equal(t, ModeLight, p.mode)

	_, err = s.Set("sepia")
	require.ErrorIs(t, err, ErrInvalidMode)
	assert.Equal(t, ModeLight, s.Mode(), "invalid set must not change the mode")
}

func TestToggle_KeepsModeWhenPersistFails(t *testing.T) {
	p := &memPersister{mode: ModeLight, has: true}
	s, err := NewStore(p, detectDark)
	require.NoError(t, err)

	p.saveErr = errors.New("read-only fs")
	_, err = s.Toggle()
	require.Error(t, err)

	assert.Equal(t, ModeLight, s.Mode(), "mode must not change when the write-through fails")
}

func TestSurvivesRestart(t *testing.T) {
	p := &memPersister{}

	s1, err := NewStore(p, detectDark)
	require.NoError(t, err)
	_, err = s1.Set(ModeLight)
	require.NoError(t, err)

	// New store over the same persister: mode comes back from storage, not
	// from detection.
	s2, err := NewStore(p, detectDark)
	require.NoError(t, err)
	assert.Equal(t, ModeLight, s2.Mode())
}
