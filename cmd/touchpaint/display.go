package main

// Display is the pixel-level drawing contract the paint core consumes.
// Coordinates are display pixels; colours are RGB565.
type Display interface {
	Begin(controllerID uint16) error
	SetRotation(mode uint8)
	FillScreen(c Color)
	DrawRect(x, y, w, h int, c Color)
	FillRect(x, y, w, h int, c Color)
	DrawCircle(x, y, r int, c Color)
	FillCircle(x, y, r int, c Color)
}

// pinnedDisplay runs every primitive of the wrapped Display with the shared
// pins held in display mode.
type pinnedDisplay struct {
	d    Display
	pins *PinBus
}

func newPinnedDisplay(d Display, pins *PinBus) *pinnedDisplay {
	return &pinnedDisplay{d: d, pins: pins}
}

func (p *pinnedDisplay) Begin(controllerID uint16) error {
	p.pins.Acquire(PinModeDisplay)
	defer p.pins.Release()
	return p.d.Begin(controllerID)
}

func (p *pinnedDisplay) SetRotation(mode uint8) {
	p.pins.Acquire(PinModeDisplay)
	defer p.pins.Release()
	p.d.SetRotation(mode)
}

func (p *pinnedDisplay) FillScreen(c Color) {
	p.pins.Acquire(PinModeDisplay)
	defer p.pins.Release()
	p.d.FillScreen(c)
}

func (p *pinnedDisplay) DrawRect(x, y, w, h int, c Color) {
	p.pins.Acquire(PinModeDisplay)
	defer p.pins.Release()
	p.d.DrawRect(x, y, w, h, c)
}

func (p *pinnedDisplay) FillRect(x, y, w, h int, c Color) {
	p.pins.Acquire(PinModeDisplay)
	defer p.pins.Release()
	p.d.FillRect(x, y, w, h, c)
}

func (p *pinnedDisplay) DrawCircle(x, y, r int, c Color) {
	p.pins.Acquire(PinModeDisplay)
	defer p.pins.Release()
	p.d.DrawCircle(x, y, r, c)
}

func (p *pinnedDisplay) FillCircle(x, y, r int, c Color) {
	p.pins.Acquire(PinModeDisplay)
	defer p.pins.Release()
	p.d.FillCircle(x, y, r, c)
}
