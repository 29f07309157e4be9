package main

// Renderer draws the canvas frame and the two widgets. Every operation redraws
// its whole target region and is safe to repeat.
type Renderer struct {
	d Display
	l *Layout
}

func NewRenderer(d Display, l *Layout) *Renderer {
	return &Renderer{d: d, l: l}
}

// DrawCanvas outlines the canvas region.
func (r *Renderer) DrawCanvas() {
	c := r.l.Canvas
	r.d.DrawRect(c.X, c.Y, c.W, c.H, ColorWhite)
}

// DrawColorSelector draws every palette swatch with a white ring around it.
// The ring is decoration only; the palette has no selection indicator.
func (r *Renderer) DrawColorSelector() {
	radius := r.l.PaletteRadius
	for i, e := range r.l.Palette {
		c := r.l.PaletteCenter(i)
		r.d.FillCircle(c.X, c.Y, radius, e.Color)
		r.d.DrawCircle(c.X, c.Y, radius+ringGap, ColorWhite)
	}
}

// DrawSizeSelector draws each brush size in the active colour. The selected
// option gets a white ring, the rest a black one.
func (r *Renderer) DrawSizeSelector(b BrushState) {
	for i, o := range r.l.Thickness {
		r.d.FillCircle(o.X, o.Y, o.Radius, b.ActiveColor)
		ring := ColorBlack
		if i == b.ThicknessIndex {
			ring = ColorWhite
		}
		r.d.DrawCircle(o.X, o.Y, o.Radius+ringGap, ring)
	}
}

// PaintDot lays permanent ink on the canvas.
func (r *Renderer) PaintDot(center Point, radius int, c Color) {
	r.d.FillCircle(center.X, center.Y, radius, c)
}
