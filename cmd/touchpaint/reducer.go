package main

// This file implements the interaction engine as a reducer:
//
//   - Events: accepted touch points
//   - Commands: drawing requested by the reducer (dots, size selector redraws)
//   - Reduce(): computes next state + commands, without performing I/O
//
// The application loop executes Commands through runEffect and publishes the
// Broadcasts to the state feed.

// HitResult is the outcome of one widget hit test: NoHit, or the index of
// the first entry that matched.
type HitResult struct {
	Hit   bool
	Index int
}

// NoHit reports that no widget entry matched.
var NoHit = HitResult{}

func hitAt(i int) HitResult { return HitResult{Hit: true, Index: i} }

// Outcome reports what a single touch did.
type Outcome struct {
	Painted  bool
	ColorHit HitResult
	SizeHit  HitResult
}

// ReduceResult is the output of Reduce(): next state plus Commands to execute
// and Broadcasts for the state feed.
type ReduceResult struct {
	State      *AppState
	Commands   []Command
	Broadcasts []StateBroadcast
	Outcome    Outcome
}

// Reduce is the pure reducer:
//
// Rules:
// - Must not perform I/O
// - Must not block
// - Must not mutate s; the next state is returned in ReduceResult.State
//
// A touch runs three checks in fixed order: paint, colour hit, size hit. All
// three run on every touch; only within a widget does the first match stop
// the search.
func Reduce(s *AppState, e Event, l *Layout) ReduceResult {
	if s == nil {
		s = NewAppState()
	}
	next := *s

	ev, ok := e.(TouchEvent)
	if !ok {
		// Unknown event type: no-op.
		return ReduceResult{State: &next}
	}

	var (
		cmds []Command
		bcs  []StateBroadcast
		out  Outcome
	)
	p := ev.Point

	next.Touches++
	next.LastTouch = p
	next.LastTouchAt = ev.At

	// Paint with the brush as it was when the finger landed.
	t := l.Thickness[next.Brush.ThicknessIndex].Radius
	if containsInclusive(l.PaintArea(t), p) {
		out.Painted = true
		next.DotsPainted++
		cmds = append(cmds, CmdPaintDot{Center: p, Radius: t, Color: next.Brush.ActiveColor})
		bcs = append(bcs, BroadcastDotPainted{Center: p, Radius: t, Color: next.Brush.ActiveColor, At: ev.At})
	}

	if hit := hitPalette(l, p); hit.Hit {
		out.ColorHit = hit
		next.ColorSelections++
		next.Brush.ActiveColor = l.Palette[hit.Index].Color
		cmds = append(cmds, CmdDrawSizeSelector{Brush: next.Brush})
		bcs = append(bcs, BroadcastColorChanged{Color: next.Brush.ActiveColor, At: ev.At})
	}

	if hit := hitThickness(l, p); hit.Hit {
		out.SizeHit = hit
		next.ThicknessSelections++
		next.Brush.ThicknessIndex = hit.Index
		cmds = append(cmds, CmdDrawSizeSelector{Brush: next.Brush})
		bcs = append(bcs, BroadcastThicknessChanged{
			Index:     hit.Index,
			Thickness: l.Thickness[hit.Index].Radius,
			At:        ev.At,
		})
	}

	return ReduceResult{
		State:      &next,
		Commands:   cmds,
		Broadcasts: bcs,
		Outcome:    out,
	}
}

// hitPalette returns the first swatch, in declared order, within the palette
// radius of p. It is first-match, not nearest-match.
func hitPalette(l *Layout, p Point) HitResult {
	if p.X < 0 || p.Y < 0 {
		return NoHit
	}
	r := uint32(l.PaletteRadius)
	for i := range l.Palette {
		c := l.PaletteCenter(i)
		if distance(uint32(p.X), uint32(p.Y), uint32(c.X), uint32(c.Y)) <= r {
			return hitAt(i)
		}
	}
	return NoHit
}

// hitThickness returns the first size option, in index order, whose own
// radius covers p.
func hitThickness(l *Layout, p Point) HitResult {
	if p.X < 0 || p.Y < 0 {
		return NoHit
	}
	for i, o := range l.Thickness {
		if distance(uint32(p.X), uint32(p.Y), uint32(o.X), uint32(o.Y)) <= uint32(o.Radius) {
			return hitAt(i)
		}
	}
	return NoHit
}
