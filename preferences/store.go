// Package preferences holds a user's timetable view selection (group, specialization,
// display mode and week) behind a pluggable key/value persistence adapter.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Mode is the timetable display mode
type Mode string

const (
	ModeWeek Mode = "week"
	ModeDay  Mode = "day"
)

// Valid reports whether m is a known display mode
func (m Mode) Valid() bool {
	return m == ModeWeek || m == ModeDay
}

// StorageKey is the adapter key the timetable view selection is saved under
const StorageKey = "timetable.view"

var ErrInvalidMode = errors.New("mode must be either 'week' or 'day'")

// Selection is the persisted view state
type Selection struct {
	Group          int    `json:"group"`
	Specialization int    `json:"specialization"`
	Mode           Mode   `json:"mode"`
	WeekID         string `json:"week_id,omitempty"`
}

// Defaults is the selection used before anything was saved
func Defaults() Selection {
	return Selection{Group: 1, Specialization: 1, Mode: ModeWeek}
}

// Adapter loads and saves raw preference values
type Adapter interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
}

// Store owns one selection and writes every mutation through its adapter
type Store struct {
	adapter Adapter
	key     string

	mu  sync.Mutex
	sel Selection
}

// New creates a store with default values; call Load to read persisted state
func New(adapter Adapter, key string) *Store {
	return &Store{adapter: adapter, key: key, sel: Defaults()}
}

// Load replaces the in-memory selection with the persisted one, if any.
// Malformed stored values fall back to defaults.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.adapter.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sel = Defaults()
	if !ok {
		return nil
	}

	var stored Selection
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil
	}
	if stored.Group != 0 {
		s.sel.Group = stored.Group
	}
	if stored.Specialization != 0 {
		s.sel.Specialization = stored.Specialization
	}
	if stored.Mode.Valid() {
		s.sel.Mode = stored.Mode
	}
	s.sel.WeekID = stored.WeekID
	return nil
}

// Selection returns a copy of the current state
func (s *Store) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

func (s *Store) SetGroup(ctx context.Context, group int) error {
	return s.update(ctx, func(sel *Selection) error {
		sel.Group = group
		return nil
	})
}

func (s *Store) SetSpecialization(ctx context.Context, specialization int) error {
	return s.update(ctx, func(sel *Selection) error {
		sel.Specialization = specialization
		return nil
	})
}

func (s *Store) SetMode(ctx context.Context, mode Mode) error {
	return s.update(ctx, func(sel *Selection) error {
		if !mode.Valid() {
			return ErrInvalidMode
		}
		sel.Mode = mode
		return nil
	})
}

func (s *Store) SetWeek(ctx context.Context, weekID string) error {
	return s.update(ctx, func(sel *Selection) error {
		sel.WeekID = weekID
		return nil
	})
}

// Patch lists the fields to change; nil fields keep their current value
type Patch struct {
	Group          *int
	Specialization *int
	Mode           *Mode
	WeekID         *string
}

// Apply changes every field set in p with a single adapter write. Nothing is
// changed when any field is invalid or the save fails.
func (s *Store) Apply(ctx context.Context, p Patch) error {
	return s.update(ctx, func(sel *Selection) error {
		if p.Mode != nil {
			if !p.Mode.Valid() {
				return ErrInvalidMode
			}
			sel.Mode = *p.Mode
		}
		if p.Group != nil {
			sel.Group = *p.Group
		}
		if p.Specialization != nil {
			sel.Specialization = *p.Specialization
		}
		if p.WeekID != nil {
			sel.WeekID = *p.WeekID
		}
		return nil
	})
}

// Reset restores and persists the defaults
func (s *Store) Reset(ctx context.Context) error {
	return s.update(ctx, func(sel *Selection) error {
		*sel = Defaults()
		return nil
	})
}

// update applies fn to a copy and only commits it once the adapter saved it
func (s *Store) update(ctx context.Context, fn func(*Selection) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.sel
	if err := fn(&next); err != nil {
		return err
	}

	data, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := s.adapter.Save(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}

	s.sel = next
	return nil
}
