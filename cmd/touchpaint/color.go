package main

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a packed RGB565 display colour.
type Color uint16

var colorNames = map[string]Color{
	"red":     ColorRed,
	"green":   ColorGreen,
	"blue":    ColorBlue,
	"cyan":    ColorCyan,
	"magenta": ColorMagenta,
	"yellow":  ColorYellow,
	"white":   ColorWhite,
	"gray":    ColorGray,
	"black":   ColorBlack,
}

// parseColor resolves a palette colour name ("red"), a hex RGB565 literal
// ("0xF800") or a 24-bit web colour ("#FF8000", truncated to RGB565).
func parseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "grey" {
		name = "gray"
	}
	if c, ok := colorNames[name]; ok {
		return c, nil
	}
	if len(name) == 7 && name[0] == '#' {
		if v, err := strconv.ParseUint(name[1:], 16, 32); err == nil {
			return rgb565(uint8(v>>16), uint8(v>>8), uint8(v)), nil
		}
	}
	if hex, ok := strings.CutPrefix(name, "0x"); ok && hex != "" {
		if v, err := strconv.ParseUint(hex, 16, 16); err == nil {
			return Color(v), nil
		}
	}
	return 0, fmt.Errorf("invalid color: %q", s)
}

// Name returns the palette name of c, or its hex encoding if it has none.
func (c Color) Name() string {
	for name, v := range colorNames {
		if v == c {
			return name
		}
	}
	return c.String()
}

func (c Color) String() string {
	return fmt.Sprintf("0x%04X", uint16(c))
}

// RGBA expands c to 8 bits per channel, replicating the high bits into the
// low bits so full-scale channels map to 0xFF.
func (c Color) RGBA() color.RGBA {
	r5 := uint8(c>>11) & 0x1F
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F
	return color.RGBA{
		R: r5<<3 | r5>>2,
		G: g6<<2 | g6>>4,
		B: b5<<3 | b5>>2,
		A: 0xFF,
	}
}

// rgb565 packs 8-bit channels into RGB565.
func rgb565(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3)
}
