package main

import (
	"image/color"
	"testing"
)

func TestFramebuffer_DrawCircleOutline(t *testing.T) {
	fb := NewFramebuffer(32, 32)
	fb.DrawCircle(10, 10, 3, ColorRed)

	on := [][2]int{{0, 3}, {0, -3}, {3, 0}, {-3, 0}, {1, 3}, {-1, -3}, {3, 1}, {-3, -1}, {2, 2}, {-2, 2}, {2, -2}, {-2, -2}}
	for _, d := range on {
		if got := fb.Pixel(10+d[0], 10+d[1]); got != ColorRed {
			t.Errorf("outline pixel offset %v = %v, want red", d, got)
		}
	}
	off := [][2]int{{0, 0}, {1, 1}, {3, 3}, {0, 4}}
	for _, d := range off {
		if got := fb.Pixel(10+d[0], 10+d[1]); got != ColorBlack {
			t.Errorf("pixel offset %v = %v, want untouched", d, got)
		}
	}
}

func TestFramebuffer_FillCircle(t *testing.T) {
	fb := NewFramebuffer(32, 32)
	fb.FillCircle(10, 10, 3, ColorBlue)

	count := 0
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if fb.Pixel(x, y) == ColorBlue {
				count++
			}
		}
	}
	// Columns: 7 at dx=0, 7 at |dx|=1, 5 at |dx|=2, 3 at |dx|=3.
	if count != 7+2*7+2*5+2*3 {
		t.Fatalf("filled %d pixels, want 37", count)
	}
	if fb.Pixel(13, 11) != ColorBlue || fb.Pixel(13, 12) != ColorBlack {
		t.Fatalf("unexpected edge at dx=3")
	}
}

func TestFramebuffer_DrawRectAndFillRect(t *testing.T) {
	fb := NewFramebuffer(20, 20)
	fb.DrawRect(2, 3, 5, 4, ColorWhite)

	for _, p := range [][2]int{{2, 3}, {6, 3}, {2, 6}, {6, 6}, {4, 3}, {2, 5}} {
		if fb.Pixel(p[0], p[1]) != ColorWhite {
			t.Errorf("border pixel %v not drawn", p)
		}
	}
	if fb.Pixel(4, 4) != ColorBlack || fb.Pixel(7, 3) != ColorBlack {
		t.Fatalf("DrawRect drew outside its border")
	}

	fb.FillRect(10, 10, 2, 2, ColorGreen)
	for _, p := range [][2]int{{10, 10}, {11, 10}, {10, 11}, {11, 11}} {
		if fb.Pixel(p[0], p[1]) != ColorGreen {
			t.Errorf("fill pixel %v not drawn", p)
		}
	}
	if fb.Pixel(12, 10) != ColorBlack {
		t.Fatalf("FillRect overran")
	}
}

func TestFramebuffer_ClipsOffPanel(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	fb.FillCircle(0, 0, 5, ColorYellow)
	fb.DrawRect(-3, -3, 20, 20, ColorYellow)

	if fb.Pixel(0, 0) != ColorYellow {
		t.Fatalf("on-panel part of the circle not drawn")
	}
	if fb.Pixel(-1, 0) != ColorBlack {
		t.Fatalf("off-panel read should be black")
	}
}

func TestFramebuffer_RotationMapsToNativeBuffer(t *testing.T) {
	fb := NewFramebuffer(4, 6)
	fb.SetRotation(1)
	if w, h := fb.Size(); w != 6 || h != 4 {
		t.Fatalf("rotated size = %dx%d, want 6x4", w, h)
	}

	fb.FillRect(0, 0, 1, 1, ColorRed)
	if fb.Pixel(0, 0) != ColorRed {
		t.Fatalf("logical read-back failed")
	}
	// Logical (0,0) at rotation 1 lands on native (3,0).
	buf := fb.Bytes()
	if got := Color(uint16(buf[6]) | uint16(buf[7])<<8); got != ColorRed {
		t.Fatalf("native pixel (3,0) = %v, want red", got)
	}

	fb.SetRotation(6) // masked to 2
	if w, h := fb.Size(); w != 4 || h != 6 {
		t.Fatalf("rotation 2 size = %dx%d", w, h)
	}
}

func TestFramebuffer_ImageAndDirty(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	if fb.TakeDirty() {
		t.Fatalf("fresh buffer should be clean")
	}
	fb.FillScreen(ColorRed)
	if !fb.TakeDirty() {
		t.Fatalf("FillScreen should mark dirty")
	}
	if fb.TakeDirty() {
		t.Fatalf("TakeDirty should reset")
	}

	if b := fb.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Fatalf("bounds = %v", b)
	}
	if got := fb.At(1, 1); got != (color.RGBA{R: 0xFF, A: 0xFF}) {
		t.Fatalf("At = %#v, want opaque red", got)
	}
	if got := fb.At(9, 9); got != (color.RGBA{}) {
		t.Fatalf("out of bounds At = %#v", got)
	}
}

func TestColor_ParseAndName(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"red", ColorRed},
		{" Grey ", ColorGray},
		{"0x07e0", ColorGreen},
		{"#00FFFF", ColorCyan},
		{"#808080", rgb565(0x80, 0x80, 0x80)},
	}
	for _, c := range cases {
		got, err := parseColor(c.in)
		if err != nil || got != c.want {
			t.Errorf("parseColor(%q) = %v, %v; want %v", c.in, got, err, c.want)
		}
	}
	for _, bad := range []string{"chartreuse", "0xF800zz", "0x07E0 junk", "0x", "0x10000", "#12345g", "#+12345"} {
		if _, err := parseColor(bad); err == nil {
			t.Errorf("parseColor(%q) should fail", bad)
		}
	}
	if ColorMagenta.Name() != "magenta" || Color(0x1234).Name() != "0x1234" {
		t.Fatalf("Name mismatch: %q %q", ColorMagenta.Name(), Color(0x1234).Name())
	}
	if rgb565(0xFF, 0xFF, 0x00) != ColorYellow {
		t.Fatalf("rgb565(yellow) = %v", rgb565(0xFF, 0xFF, 0x00))
	}
}
