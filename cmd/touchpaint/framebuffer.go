package main

import (
	"image"
	"image/color"
	"sync"
)

// Framebuffer is an in-memory RGB565 panel implementing Display.
//
// Pixels are stored little-endian, two bytes per pixel, in the panel's native
// (rotation 0) orientation so the buffer can be copied straight to a Linux
// framebuffer device. Drawing uses the same midpoint rasterisation as the
// Adafruit GFX library so circles are pixel-identical to the hardware build.
//
// Safe for one writer plus concurrent readers (Bytes, At, Pixel).
type Framebuffer struct {
	mu sync.RWMutex

	physW, physH int
	stride       int
	buf          []byte
	rotation     uint8
	controller   uint16
	dirty        bool
}

// NewFramebuffer allocates a black panel of the given native size.
func NewFramebuffer(width, height int) *Framebuffer {
	stride := width * 2
	return &Framebuffer{
		physW:  width,
		physH:  height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

// Begin records the controller id. The in-memory panel accepts any id.
func (f *Framebuffer) Begin(controllerID uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.controller = controllerID
	return nil
}

// SetRotation selects one of four clockwise orientations. Odd rotations swap
// the logical width and height.
func (f *Framebuffer) SetRotation(mode uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rotation = mode & 3
}

// Size returns the logical size for the current rotation.
func (f *Framebuffer) Size() (w, h int) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.size()
}

func (f *Framebuffer) size() (int, int) {
	if f.rotation%2 == 1 {
		return f.physH, f.physW
	}
	return f.physW, f.physH
}

func (f *Framebuffer) FillScreen(c Color) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lo, hi := byte(c), byte(c>>8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
	f.dirty = true
}

func (f *Framebuffer) DrawRect(x, y, w, h int, c Color) {
	if w <= 0 || h <= 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hline(x, y, w, c)
	f.hline(x, y+h-1, w, c)
	f.vline(x, y, h, c)
	f.vline(x+w-1, y, h, c)
}

func (f *Framebuffer) FillRect(x, y, w, h int, c Color) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := x; i < x+w; i++ {
		f.vline(i, y, h, c)
	}
}

func (f *Framebuffer) DrawCircle(x0, y0, r int, c Color) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fe := 1 - r
	ddFx := 1
	ddFy := -2 * r
	x, y := 0, r

	f.set(x0, y0+r, c)
	f.set(x0, y0-r, c)
	f.set(x0+r, y0, c)
	f.set(x0-r, y0, c)

	for x < y {
		if fe >= 0 {
			y--
			ddFy += 2
			fe += ddFy
		}
		x++
		ddFx += 2
		fe += ddFx

		f.set(x0+x, y0+y, c)
		f.set(x0-x, y0+y, c)
		f.set(x0+x, y0-y, c)
		f.set(x0-x, y0-y, c)
		f.set(x0+y, y0+x, c)
		f.set(x0-y, y0+x, c)
		f.set(x0+y, y0-x, c)
		f.set(x0-y, y0-x, c)
	}
}

func (f *Framebuffer) FillCircle(x0, y0, r int, c Color) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.vline(x0, y0-r, 2*r+1, c)

	fe := 1 - r
	ddFx := 1
	ddFy := -2 * r
	x, y := 0, r
	px, py := x, y

	for x < y {
		if fe >= 0 {
			y--
			ddFy += 2
			fe += ddFy
		}
		x++
		ddFx += 2
		fe += ddFx
		// These checks avoid double-drawing certain lines.
		if x < y+1 {
			f.vline(x0+x, y0-y, 2*y+1, c)
			f.vline(x0-x, y0-y, 2*y+1, c)
		}
		if y != py {
			f.vline(x0+py, y0-px, 2*px+1, c)
			f.vline(x0-py, y0-px, 2*px+1, c)
			py = y
		}
		px = x
	}
}

func (f *Framebuffer) hline(x, y, w int, c Color) {
	for i := x; i < x+w; i++ {
		f.set(i, y, c)
	}
}

func (f *Framebuffer) vline(x, y, h int, c Color) {
	for j := y; j < y+h; j++ {
		f.set(x, j, c)
	}
}

// set writes one logical pixel, clipping anything off-panel.
func (f *Framebuffer) set(x, y int, c Color) {
	px, py, ok := f.physical(x, y)
	if !ok {
		return
	}
	i := py*f.stride + px*2
	f.buf[i] = byte(c)
	f.buf[i+1] = byte(c >> 8)
	f.dirty = true
}

// physical maps logical coordinates to native panel coordinates.
func (f *Framebuffer) physical(x, y int) (int, int, bool) {
	w, h := f.size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return 0, 0, false
	}
	switch f.rotation {
	case 1:
		return f.physW - 1 - y, x, true
	case 2:
		return f.physW - 1 - x, f.physH - 1 - y, true
	case 3:
		return y, f.physH - 1 - x, true
	default:
		return x, y, true
	}
}

// Pixel returns the logical pixel at (x, y). Off-panel reads return black.
func (f *Framebuffer) Pixel(x, y int) Color {
	f.mu.RLock()
	defer f.mu.RUnlock()
	px, py, ok := f.physical(x, y)
	if !ok {
		return ColorBlack
	}
	i := py*f.stride + px*2
	return Color(uint16(f.buf[i]) | uint16(f.buf[i+1])<<8)
}

// Bytes returns a copy of the native-orientation pixel buffer.
func (f *Framebuffer) Bytes() []byte {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]byte, len(f.buf))
	copy(out, f.buf)
	return out
}

// TakeDirty reports whether anything was drawn since the previous call.
func (f *Framebuffer) TakeDirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.dirty
	f.dirty = false
	return d
}

// ColorModel, Bounds and At implement image.Image over the native panel.
func (f *Framebuffer) ColorModel() color.Model { return color.RGBAModel }

func (f *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.physW, f.physH)
}

func (f *Framebuffer) At(x, y int) color.Color {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if x < 0 || y < 0 || x >= f.physW || y >= f.physH {
		return color.RGBA{}
	}
	i := y*f.stride + x*2
	return Color(uint16(f.buf[i]) | uint16(f.buf[i+1])<<8).RGBA()
}
