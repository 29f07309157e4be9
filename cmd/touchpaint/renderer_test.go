package main

import (
	"errors"
	"testing"
)

type drawOp struct {
	kind       string
	x, y, w, h int // w carries the radius for circles
	color      Color
}

// recordingDisplay is a Display that only remembers what was asked of it.
type recordingDisplay struct {
	ops        []drawOp
	controller uint16
	rotation   uint8
	beginErr   error
}

func (d *recordingDisplay) Begin(id uint16) error {
	d.controller = id
	return d.beginErr
}
func (d *recordingDisplay) SetRotation(m uint8) { d.rotation = m }
func (d *recordingDisplay) FillScreen(c Color) {
	d.ops = append(d.ops, drawOp{kind: "fill_screen", color: c})
}
func (d *recordingDisplay) DrawRect(x, y, w, h int, c Color) {
	d.ops = append(d.ops, drawOp{kind: "draw_rect", x: x, y: y, w: w, h: h, color: c})
}
func (d *recordingDisplay) FillRect(x, y, w, h int, c Color) {
	d.ops = append(d.ops, drawOp{kind: "fill_rect", x: x, y: y, w: w, h: h, color: c})
}
func (d *recordingDisplay) DrawCircle(x, y, r int, c Color) {
	d.ops = append(d.ops, drawOp{kind: "draw_circle", x: x, y: y, w: r, color: c})
}
func (d *recordingDisplay) FillCircle(x, y, r int, c Color) {
	d.ops = append(d.ops, drawOp{kind: "fill_circle", x: x, y: y, w: r, color: c})
}

func (d *recordingDisplay) opsOf(kind string) []drawOp {
	var out []drawOp
	for _, op := range d.ops {
		if op.kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func TestRenderer_DrawCanvasOutlinesInWhite(t *testing.T) {
	rec := &recordingDisplay{}
	NewRenderer(rec, NewLayout(DefaultConfig())).DrawCanvas()

	want := drawOp{kind: "draw_rect", x: 10, y: 10, w: 300, h: 340, color: ColorWhite}
	if len(rec.ops) != 1 || rec.ops[0] != want {
		t.Fatalf("ops = %+v, want %+v", rec.ops, want)
	}
}

func TestRenderer_DrawColorSelector(t *testing.T) {
	l := NewLayout(DefaultConfig())
	rec := &recordingDisplay{}
	NewRenderer(rec, l).DrawColorSelector()

	fills := rec.opsOf("fill_circle")
	rings := rec.opsOf("draw_circle")
	if len(fills) != paletteSize || len(rings) != paletteSize {
		t.Fatalf("got %d swatches and %d rings", len(fills), len(rings))
	}
	for i := range fills {
		c := l.PaletteCenter(i)
		if fills[i] != (drawOp{kind: "fill_circle", x: c.X, y: c.Y, w: 12, color: l.Palette[i].Color}) {
			t.Errorf("swatch %d = %+v", i, fills[i])
		}
		// Rings are identical for every swatch, selected or not.
		if rings[i] != (drawOp{kind: "draw_circle", x: c.X, y: c.Y, w: 15, color: ColorWhite}) {
			t.Errorf("ring %d = %+v", i, rings[i])
		}
	}
}

func TestRenderer_DrawSizeSelectorMarksSelection(t *testing.T) {
	l := NewLayout(DefaultConfig())
	rec := &recordingDisplay{}
	NewRenderer(rec, l).DrawSizeSelector(BrushState{ActiveColor: ColorCyan, ThicknessIndex: 2})

	fills := rec.opsOf("fill_circle")
	rings := rec.opsOf("draw_circle")
	if len(fills) != thicknessOptions || len(rings) != thicknessOptions {
		t.Fatalf("got %d swatches and %d rings", len(fills), len(rings))
	}
	for i, o := range l.Thickness {
		if fills[i] != (drawOp{kind: "fill_circle", x: o.X, y: o.Y, w: o.Radius, color: ColorCyan}) {
			t.Errorf("size swatch %d = %+v", i, fills[i])
		}
		wantRing := ColorBlack
		if i == 2 {
			wantRing = ColorWhite
		}
		if rings[i].color != wantRing || rings[i].w != o.Radius+3 {
			t.Errorf("size ring %d = %+v, want colour %v radius %d", i, rings[i], wantRing, o.Radius+3)
		}
	}
}

func TestRunEffect(t *testing.T) {
	l := NewLayout(DefaultConfig())
	rec := &recordingDisplay{}
	r := NewRenderer(rec, l)

	if err := runEffect(r, CmdPaintDot{Center: Point{X: 50, Y: 60}, Radius: 7, Color: ColorYellow}, discardLogger()); err != nil {
		t.Fatalf("runEffect: %v", err)
	}
	if len(rec.ops) != 1 || rec.ops[0] != (drawOp{kind: "fill_circle", x: 50, y: 60, w: 7, color: ColorYellow}) {
		t.Fatalf("ops = %+v", rec.ops)
	}

	err := runEffect(r, bogusCommand{}, discardLogger())
	var unknown errUnknownCommand
	if !errors.As(err, &unknown) {
		t.Fatalf("expected errUnknownCommand, got %v", err)
	}
}

type bogusCommand struct{}

func (bogusCommand) commandMarker()  {}
func (bogusCommand) String() string { return "bogus" }
