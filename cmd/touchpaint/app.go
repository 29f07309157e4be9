package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// presenter receives the framebuffer contents after a step that drew
// something. fbdevOutput implements it.
type presenter interface {
	Present(buf []byte) error
}

// App is the application loop: setup, then sample -> reduce -> draw -> idle,
// until its context is cancelled.
//
// App owns AppState and is the only goroutine that draws. Other goroutines
// read the published snapshot and consume Broadcasts.
type App struct {
	cfg    Config
	layout *Layout
	state  *AppState

	mapper   *TouchMapper
	display  Display
	renderer *Renderer
	fb       *Framebuffer
	out      presenter

	snapshots  *snapshotStore
	broadcasts chan StateBroadcast

	metrics *Metrics
	logger  *slog.Logger
}

// AppDeps are the collaborators an App is built from. Output and Metrics may
// be nil.
type AppDeps struct {
	Config  Config
	Layout  *Layout
	Mapper  *TouchMapper
	Display Display
	FB      *Framebuffer
	Output  presenter
	Metrics *Metrics
	Logger  *slog.Logger
}

func NewApp(d AppDeps) *App {
	logger := d.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &App{
		cfg:        d.Config,
		layout:     d.Layout,
		state:      NewAppState(),
		mapper:     d.Mapper,
		display:    d.Display,
		renderer:   NewRenderer(d.Display, d.Layout),
		fb:         d.FB,
		out:        d.Output,
		snapshots:  &snapshotStore{},
		broadcasts: make(chan StateBroadcast, 128),
		metrics:    d.Metrics,
		logger:     logger,
	}
}

// Snapshots returns the store the loop publishes to.
func (a *App) Snapshots() *snapshotStore { return a.snapshots }

// Broadcasts is the reducer's outbound change stream for the state feed.
func (a *App) Broadcasts() <-chan StateBroadcast { return a.broadcasts }

// State returns the loop-owned state. Only for use from the loop goroutine
// or after Run has returned.
func (a *App) State() *AppState { return a.state }

// Setup initialises the panel and draws the canvas frame and both widgets.
func (a *App) Setup() error {
	if err := a.display.Begin(a.cfg.Display.Controller); err != nil {
		return fmt.Errorf("display begin: %w", err)
	}
	a.display.SetRotation(a.cfg.Display.Rotation)
	a.display.FillScreen(ColorBlack)

	a.renderer.DrawCanvas()
	a.renderer.DrawColorSelector()
	a.renderer.DrawSizeSelector(a.state.Brush)

	a.publish()
	a.present()

	a.logger.Debug("display ready",
		"controller", fmt.Sprintf("0x%04X", a.cfg.Display.Controller),
		"width", a.layout.Width,
		"height", a.layout.Height,
		"canvas", a.layout.Canvas)
	return nil
}

// Step waits for one touch and applies it. It reports false when the wait
// ended without a touch.
func (a *App) Step(ctx context.Context) (Outcome, bool) {
	acq := a.mapper.Acquire(ctx, a.cfg.AcquireTimeout())
	if acq.Status != Touched {
		return Outcome{}, false
	}
	return a.apply(TouchEvent{Point: acq.Point, At: time.Now()}), true
}

func (a *App) apply(ev TouchEvent) Outcome {
	rr := Reduce(a.state, ev, a.layout)
	a.state = rr.State

	for _, cmd := range rr.Commands {
		if err := runEffect(a.renderer, cmd, a.logger); err != nil {
			a.logger.Error("draw command failed", "command", cmd.String(), "error", err)
		}
	}

	a.record(rr.Outcome)
	a.publish()
	for _, b := range rr.Broadcasts {
		select {
		case a.broadcasts <- b:
		default:
			a.logger.Warn("state broadcast queue full, dropping", "broadcast", fmt.Sprintf("%T", b))
		}
	}
	a.present()

	a.logger.Debug("touch",
		"x", ev.Point.X, "y", ev.Point.Y,
		"painted", rr.Outcome.Painted,
		"color_hit", rr.Outcome.ColorHit.Hit,
		"size_hit", rr.Outcome.SizeHit.Hit)
	return rr.Outcome
}

func (a *App) record(o Outcome) {
	if o.Painted {
		a.metrics.dotPainted()
	}
	if o.ColorHit.Hit {
		a.metrics.selected("color")
	}
	if o.SizeHit.Hit {
		a.metrics.selected("thickness")
		a.metrics.setThickness(a.layout.Thickness[a.state.Brush.ThicknessIndex].Radius)
	}
}

func (a *App) publish() {
	a.snapshots.Store(a.state.Snapshot(a.layout))
}

// present pushes the framebuffer to the output device if anything changed.
func (a *App) present() {
	if a.out == nil || a.fb == nil || !a.fb.TakeDirty() {
		return
	}
	if err := a.out.Present(a.fb.Bytes()); err != nil {
		a.logger.Warn("framebuffer present failed", "error", err)
	}
}

// Run performs Setup and then loops until ctx is cancelled. The broadcast
// channel is closed on return.
func (a *App) Run(ctx context.Context) error {
	defer close(a.broadcasts)

	if err := a.Setup(); err != nil {
		return err
	}
	a.metrics.setThickness(a.layout.Thickness[a.state.Brush.ThicknessIndex].Radius)

	idle := a.cfg.IdleDelay()
	for {
		if ctx.Err() != nil {
			a.logger.Info("paint loop stopping (context canceled)")
			return nil
		}

		a.Step(ctx)

		if idle > 0 {
			t := time.NewTimer(idle)
			select {
			case <-ctx.Done():
				t.Stop()
			case <-t.C:
			}
		}
	}
}
