package main

import (
	"sync"
	"time"
)

// BrushState is the pen the user paints with.
type BrushState struct {
	ActiveColor    Color
	ThicknessIndex int
}

// AppState is the application-owned state container.
//
// It is owned by the application loop goroutine. Everything else sees it only
// through StateSnapshot copies published after each step.
type AppState struct {
	Brush BrushState

	Touches             uint64
	DotsPainted         uint64
	ColorSelections     uint64
	ThicknessSelections uint64

	LastTouch   Point
	LastTouchAt time.Time
}

// NewAppState returns the power-on state: a white pen of the second size.
func NewAppState() *AppState {
	return &AppState{
		Brush: BrushState{
			ActiveColor:    ColorWhite,
			ThicknessIndex: initialThicknessIndex,
		},
	}
}

// StateSnapshot is an immutable, externally-consumable view of AppState.
type StateSnapshot struct {
	ActiveColor    string `json:"active_color"`
	ColorName      string `json:"color_name"`
	ThicknessIndex int    `json:"thickness_index"`
	Thickness      int    `json:"thickness"`

	Touches             uint64 `json:"touches"`
	DotsPainted         uint64 `json:"dots_painted"`
	ColorSelections     uint64 `json:"color_selections"`
	ThicknessSelections uint64 `json:"thickness_selections"`

	LastTouch   *Point     `json:"last_touch,omitempty"`
	LastTouchAt *time.Time `json:"last_touch_at,omitempty"`
}

// Snapshot copies s into a StateSnapshot using l for the thickness value.
func (s *AppState) Snapshot(l *Layout) StateSnapshot {
	snap := StateSnapshot{
		ActiveColor:         s.Brush.ActiveColor.String(),
		ColorName:           s.Brush.ActiveColor.Name(),
		ThicknessIndex:      s.Brush.ThicknessIndex,
		Thickness:           l.Thickness[s.Brush.ThicknessIndex].Radius,
		Touches:             s.Touches,
		DotsPainted:         s.DotsPainted,
		ColorSelections:     s.ColorSelections,
		ThicknessSelections: s.ThicknessSelections,
	}
	if s.Touches > 0 {
		p := s.LastTouch
		at := s.LastTouchAt
		snap.LastTouch = &p
		snap.LastTouchAt = &at
	}
	return snap
}

// snapshotStore publishes the latest snapshot to the IPC and websocket
// goroutines.
type snapshotStore struct {
	mu   sync.RWMutex
	snap StateSnapshot
}

func (s *snapshotStore) Store(snap StateSnapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *snapshotStore) Load() StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
