package main

// Linux input event types and codes (from <linux/input.h>)
const (
	EV_SYN = 0x00
	EV_KEY = 0x01
	EV_ABS = 0x03

	SYN_REPORT = 0x00

	BTN_TOUCH = 0x14A

	ABS_X        = 0x00
	ABS_Y        = 0x01
	ABS_PRESSURE = 0x18
)

// Input event value constants
const (
	evValueRelease = 0
	evValuePress   = 1
)

// RGB565 display colours. These are the exact encodings the panel expects.
const (
	ColorRed     Color = 0xF800
	ColorGreen   Color = 0x07E0
	ColorBlue    Color = 0x001F
	ColorCyan    Color = 0x07FF
	ColorMagenta Color = 0xF81F
	ColorYellow  Color = 0xFFE0
	ColorWhite   Color = 0xFFFF
	ColorGray    Color = 0x520A
	ColorBlack   Color = 0x0000
)

// Display defaults (ILI9486 320x480 shield in portrait)
const (
	defaultDisplayWidth      = 320
	defaultDisplayHeight     = 480
	defaultDisplayController = 0x9486
	defaultDisplayRotation   = 0
)

// Touch defaults
const (
	// Calibrated raw bounds of the resistive panel. Y is reported inverted.
	defaultCalibXLow  = 186
	defaultCalibXHigh = 974
	defaultCalibYLow  = 963
	defaultCalibYHigh = 205

	defaultPressureLow  = 10
	defaultPressureHigh = 1200

	defaultIdleDelayMS = 5 // Delay between loop iterations (ms)
)

// Layout defaults
const (
	defaultCanvasMargin = 10 // Canvas inset from the display edges (px)
	defaultWidgetGap    = 30 // Distance from canvas bottom to widget row centre (px)

	defaultPaletteAnchorX = 40
	defaultPaletteSpacing = 35
	defaultPaletteColumns = 3
	defaultPaletteRadius  = 12

	defaultThicknessStartX  = 160
	defaultThicknessSpacing = 35

	// ringGap is the distance between a swatch and its outline ring (px)
	ringGap = 3

	// canvasPaintGap is the extra inset beyond the brush radius that keeps a
	// painted dot clear of the canvas border.
	canvasPaintGap = 2

	// initialThicknessIndex is the brush size selected at startup.
	initialThicknessIndex = 1
)

// Server defaults
const (
	defaultListenAddr = ":8080"
	defaultIPCSocket  = "/tmp/touchpaint.sock"
)

var (
	defaultPaletteColors   = []string{"red", "green", "blue", "cyan", "magenta", "yellow", "white", "gray", "black"}
	defaultThicknessValues = []int{3, 5, 7, 9}
)
