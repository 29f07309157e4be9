package main

import (
	"log/slog"
	"sync"
)

// PinMode is the electrical configuration of the pins shared by the resistive
// touch panel and the display bus.
type PinMode int

const (
	PinModeDisplay PinMode = iota // pins driven as display bus outputs
	PinModeTouch                  // pins configured for analog touch sampling
)

func (m PinMode) String() string {
	switch m {
	case PinModeDisplay:
		return "display"
	case PinModeTouch:
		return "touch"
	default:
		return "unknown"
	}
}

// PinBus arbitrates the shared pins. Touch sampling and display drawing must
// never overlap in time: Acquire blocks until the pins are free, and an
// acquire that finds the pins already held is recorded as an overlap.
//
// The idle configuration is PinModeDisplay, matching the board's power-on
// state after setup.
type PinBus struct {
	mu sync.Mutex // held between Acquire and Release

	stateMu     sync.Mutex
	held        bool
	mode        PinMode
	overlaps    int
	transitions int

	logger    *slog.Logger
	onOverlap func()
}

// NewPinBus returns a bus idling in display mode.
func NewPinBus(logger *slog.Logger) *PinBus {
	return &PinBus{mode: PinModeDisplay, logger: logger}
}

// Acquire takes exclusive use of the pins and switches them to mode.
func (b *PinBus) Acquire(mode PinMode) {
	b.stateMu.Lock()
	if b.held {
		b.overlaps++
		holder := b.mode
		b.stateMu.Unlock()
		if b.logger != nil {
			b.logger.Warn("overlapping pin access", "held", holder.String(), "wanted", mode.String())
		}
		if b.onOverlap != nil {
			b.onOverlap()
		}
	} else {
		b.stateMu.Unlock()
	}

	b.mu.Lock()

	b.stateMu.Lock()
	b.held = true
	if b.mode != mode {
		b.transitions++
		b.mode = mode
	}
	b.stateMu.Unlock()
}

// Release gives the pins back. The pins keep their last mode.
func (b *PinBus) Release() {
	b.stateMu.Lock()
	b.held = false
	b.stateMu.Unlock()
	b.mu.Unlock()
}

// RestoreDisplayMode puts the pins back into display mode without holding
// them, as the touch mapper must do before returning a point.
func (b *PinBus) RestoreDisplayMode() {
	b.Acquire(PinModeDisplay)
	b.Release()
}

// Mode returns the current pin configuration.
func (b *PinBus) Mode() PinMode {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	return b.mode
}

// Overlaps returns how many acquires found the pins already held.
func (b *PinBus) Overlaps() int {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	return b.overlaps
}

// Transitions returns how many times the pin mode changed.
func (b *PinBus) Transitions() int {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	return b.transitions
}
