package main

const (
	paletteSize      = 9
	thicknessOptions = 4
)

// PaletteEntry is one selectable colour swatch, placed at an offset from the
// palette anchor.
type PaletteEntry struct {
	OffsetX int
	OffsetY int
	Color   Color
}

// ThicknessOption is one selectable brush size. Radius is both the hit
// tolerance and the painted dot radius.
type ThicknessOption struct {
	X      int
	Y      int
	Radius int
}

// Layout is the immutable geometry shared by the renderer and the reducer.
type Layout struct {
	Width  int
	Height int

	Canvas Rect

	PaletteAnchor Point
	PaletteRadius int
	Palette       [paletteSize]PaletteEntry

	Thickness [thicknessOptions]ThicknessOption
}

// NewLayout computes the widget tables from a validated config.
//
// The canvas takes the top three quarters of the display minus the margin; the
// widget row sits WidgetGap pixels below the canvas bottom.
func NewLayout(cfg Config) *Layout {
	width, height := cfg.Display.Width, cfg.Display.Height
	if cfg.Display.Rotation%2 == 1 {
		width, height = height, width
	}

	margin := cfg.Canvas.Margin
	canvas := Rect{
		X: margin,
		Y: margin,
		W: width - 2*margin,
		H: (height/4)*3 - 2*margin,
	}
	rowY := canvas.Y + canvas.H + cfg.Canvas.WidgetGap

	l := &Layout{
		Width:         width,
		Height:        height,
		Canvas:        canvas,
		PaletteAnchor: Point{X: cfg.Palette.AnchorX, Y: rowY},
		PaletteRadius: cfg.Palette.Radius,
	}

	cols := cfg.Palette.Columns
	for i, name := range cfg.Palette.Colors {
		if i >= paletteSize {
			break
		}
		c, _ := parseColor(name) // validated by Config.Validate
		l.Palette[i] = PaletteEntry{
			OffsetX: cfg.Palette.Spacing * (i % cols),
			OffsetY: cfg.Palette.Spacing * (i / cols),
			Color:   c,
		}
	}

	for i, v := range cfg.Thickness.Values {
		if i >= thicknessOptions {
			break
		}
		l.Thickness[i] = ThicknessOption{
			X:      cfg.Thickness.StartX + cfg.Thickness.Spacing*i,
			Y:      rowY,
			Radius: v,
		}
	}

	return l
}

// PaletteCenter returns the absolute centre of palette entry i.
func (l *Layout) PaletteCenter(i int) Point {
	e := l.Palette[i]
	return Point{X: l.PaletteAnchor.X + e.OffsetX, Y: l.PaletteAnchor.Y + e.OffsetY}
}

// PaintArea returns the region in which a dot of radius t may be painted: the
// canvas inset by t+2 on every side. Both edges are inclusive.
func (l *Layout) PaintArea(t int) Rect {
	return l.Canvas.Inset(t + canvasPaintGap)
}

// containsInclusive reports whether p lies in r including its far edges
// (r.X+r.W and r.Y+r.H).
func containsInclusive(r Rect, p Point) bool {
	return inRange(p.X, r.X, r.X+r.W) && inRange(p.Y, r.Y, r.Y+r.H)
}
