package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration for the touchpaint daemon.
//
// Everything the paint core needs (display size, calibration, pressure window,
// widget tables) lives here so a different panel or palette needs no code
// changes. Defaults and validation are centralized so the rest of the code can
// assume a well-formed config.
type Config struct {
	Display     DisplayConfig     `yaml:"display"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Pressure    PressureConfig    `yaml:"pressure"`
	Canvas      CanvasConfig      `yaml:"canvas"`
	Palette     PaletteConfig     `yaml:"palette"`
	Thickness   ThicknessConfig   `yaml:"thickness"`
	Touch       TouchConfig       `yaml:"touch"`
	Output      OutputConfig      `yaml:"output"`
	Server      ServerConfig      `yaml:"server"`
	IPC         IPCConfig         `yaml:"ipc"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type DisplayConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Controller uint16 `yaml:"controller"` // passed to Begin, e.g. 0x9486 for ILI9486
	Rotation   uint8  `yaml:"rotation"`
}

// CalibrationConfig holds the raw sensor rectangle that maps onto the full
// display. YLow maps to the bottom row and YHigh to the top row.
type CalibrationConfig struct {
	XLow  int `yaml:"x_low"`
	XHigh int `yaml:"x_high"`
	YLow  int `yaml:"y_low"`
	YHigh int `yaml:"y_high"`
}

// PressureConfig is the inclusive window a sample's pressure must fall in.
type PressureConfig struct {
	Low  int `yaml:"low"`
	High int `yaml:"high"`
}

type CanvasConfig struct {
	Margin    int `yaml:"margin"`
	WidgetGap int `yaml:"widget_gap"` // canvas bottom to widget row centre
}

type PaletteConfig struct {
	AnchorX int      `yaml:"anchor_x"`
	Spacing int      `yaml:"spacing"`
	Columns int      `yaml:"columns"`
	Radius  int      `yaml:"radius"`
	Colors  []string `yaml:"colors"` // reading order
}

type ThicknessConfig struct {
	StartX  int   `yaml:"start_x"`
	Spacing int   `yaml:"spacing"`
	Values  []int `yaml:"values"`
}

type TouchConfig struct {
	Source string `yaml:"source"` // "evdev", "ipc" or "script"
	Device string `yaml:"device,omitempty"`
	Grab   bool   `yaml:"grab,omitempty"`

	// Script replays samples from a YAML file when Source is "script".
	Script          string `yaml:"script,omitempty"`
	ExitAfterScript bool   `yaml:"exit_after_script,omitempty"`

	// AcquireTimeoutMS bounds each wait for a valid sample. 0 waits forever.
	AcquireTimeoutMS int `yaml:"acquire_timeout_ms"`
	IdleDelayMS      int `yaml:"idle_delay_ms"`
	QueueSize        int `yaml:"queue_size,omitempty"`
}

type OutputConfig struct {
	// Framebuffer is a Linux framebuffer device (e.g. /dev/fb1). Empty keeps
	// the canvas in memory only.
	Framebuffer string `yaml:"framebuffer,omitempty"`
}

type ServerConfig struct {
	Listen  string `yaml:"listen"` // empty disables the HTTP server
	WSPath  string `yaml:"ws_path"`
	SendBuf int    `yaml:"send_buf,omitempty"`
}

type IPCConfig struct {
	SocketPath string `yaml:"socket_path"` // empty disables IPC
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns a fully-populated Config with the panel's shipped
// constants. Keep this aligned with constants.go.
func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			Width:      defaultDisplayWidth,
			Height:     defaultDisplayHeight,
			Controller: defaultDisplayController,
			Rotation:   defaultDisplayRotation,
		},
		Calibration: CalibrationConfig{
			XLow:  defaultCalibXLow,
			XHigh: defaultCalibXHigh,
			YLow:  defaultCalibYLow,
			YHigh: defaultCalibYHigh,
		},
		Pressure: PressureConfig{
			Low:  defaultPressureLow,
			High: defaultPressureHigh,
		},
		Canvas: CanvasConfig{
			Margin:    defaultCanvasMargin,
			WidgetGap: defaultWidgetGap,
		},
		Palette: PaletteConfig{
			AnchorX: defaultPaletteAnchorX,
			Spacing: defaultPaletteSpacing,
			Columns: defaultPaletteColumns,
			Radius:  defaultPaletteRadius,
			Colors:  append([]string(nil), defaultPaletteColors...),
		},
		Thickness: ThicknessConfig{
			StartX:  defaultThicknessStartX,
			Spacing: defaultThicknessSpacing,
			Values:  append([]int(nil), defaultThicknessValues...),
		},
		Touch: TouchConfig{
			Source:      "evdev",
			Device:      "/dev/input/event0",
			IdleDelayMS: defaultIdleDelayMS,
			QueueSize:   64,
		},
		Server: ServerConfig{
			Listen: defaultListenAddr,
			WSPath: "/ws",
		},
		IPC: IPCConfig{
			SocketPath: defaultIPCSocket,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfigFile reads and parses a YAML config file on top of the defaults.
//
// Unknown fields are rejected (helps catch typos) via KnownFields(true).
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return decodeConfig(b)
}

func decodeConfig(b []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Only whitespace/comments are allowed after the document.
	if err := rejectTrailingDocument(dec); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	return cfg, nil
}

// rejectTrailingDocument fails unless dec has no further YAML documents.
// The next document is decoded into a node so unknown-field checks cannot
// mask it.
func rejectTrailingDocument(dec *yaml.Decoder) error {
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return errors.New("unexpected trailing document")
	}
	return nil
}

// FlagOverrides carries command-line overrides. Each override is applied only
// when its pointer is non-nil, even if it holds a zero value.
type FlagOverrides struct {
	TouchSource    *string
	TouchDevice    *string
	TouchScript    *string
	AcquireTimeout *int
	Framebuffer    *string
	Listen         *string
	IPCSocketPath  *string
	LogLevel       *string
	LogFormat      *string
}

// Apply merges the overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.TouchSource != nil {
		cfg.Touch.Source = *o.TouchSource
	}
	if o.TouchDevice != nil {
		cfg.Touch.Device = *o.TouchDevice
	}
	if o.TouchScript != nil {
		cfg.Touch.Script = *o.TouchScript
	}
	if o.AcquireTimeout != nil {
		cfg.Touch.AcquireTimeoutMS = *o.AcquireTimeout
	}
	if o.Framebuffer != nil {
		cfg.Output.Framebuffer = *o.Framebuffer
	}
	if o.Listen != nil {
		cfg.Server.Listen = *o.Listen
	}
	if o.IPCSocketPath != nil {
		cfg.IPC.SocketPath = *o.IPCSocketPath
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	if o.LogFormat != nil {
		cfg.Logging.Format = *o.LogFormat
	}
}

// Validate checks config invariants and returns a user-friendly error.
// This is intended to be called after defaults + file + overrides are applied.
func (c *Config) Validate() error {
	// Display
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return errors.New("display.width and display.height must be > 0")
	}
	if c.Display.Rotation > 3 {
		return errors.New("display.rotation must be between 0 and 3")
	}

	// Calibration must be invertible on both axes.
	if c.Calibration.XLow == c.Calibration.XHigh {
		return errors.New("calibration.x_low must differ from calibration.x_high")
	}
	if c.Calibration.YLow == c.Calibration.YHigh {
		return errors.New("calibration.y_low must differ from calibration.y_high")
	}

	// Pressure
	if c.Pressure.Low > c.Pressure.High {
		return errors.New("pressure.low must be <= pressure.high")
	}

	// Canvas
	if c.Canvas.Margin < 0 {
		return errors.New("canvas.margin must be >= 0")
	}
	w, h := c.Display.Width, c.Display.Height
	if c.Display.Rotation%2 == 1 {
		w, h = h, w
	}
	if w-2*c.Canvas.Margin <= 0 || (h/4)*3-2*c.Canvas.Margin <= 0 {
		return errors.New("canvas.margin leaves no room for the canvas")
	}

	// Palette
	if len(c.Palette.Colors) != paletteSize {
		return fmt.Errorf("palette.colors must have exactly %d entries, got %d", paletteSize, len(c.Palette.Colors))
	}
	if c.Palette.Columns <= 0 || paletteSize%c.Palette.Columns != 0 {
		return fmt.Errorf("palette.columns must divide %d", paletteSize)
	}
	for i, name := range c.Palette.Colors {
		if _, err := parseColor(name); err != nil {
			return fmt.Errorf("palette.colors[%d]: %w", i, err)
		}
	}
	if c.Palette.Radius <= 0 {
		return errors.New("palette.radius must be > 0")
	}
	if c.Palette.AnchorX < 0 || c.Palette.Spacing < 0 {
		return errors.New("palette.anchor_x and palette.spacing must be >= 0")
	}

	// Thickness
	if len(c.Thickness.Values) != thicknessOptions {
		return fmt.Errorf("thickness.values must have exactly %d entries, got %d", thicknessOptions, len(c.Thickness.Values))
	}
	for i, v := range c.Thickness.Values {
		if v <= 0 {
			return fmt.Errorf("thickness.values[%d] must be > 0", i)
		}
	}
	if c.Thickness.StartX < 0 || c.Thickness.Spacing < 0 {
		return errors.New("thickness.start_x and thickness.spacing must be >= 0")
	}
	// Widget centres are hit-tested as unsigned coordinates.
	if rowY := c.Canvas.Margin + (h/4)*3 - 2*c.Canvas.Margin + c.Canvas.WidgetGap; rowY < 0 {
		return fmt.Errorf("canvas.widget_gap puts the widget row at y=%d", rowY)
	}

	// Touch
	switch c.Touch.Source {
	case "evdev":
		if c.Touch.Device == "" {
			return errors.New("touch.device must not be empty when touch.source is evdev")
		}
	case "ipc":
		if c.IPC.SocketPath == "" {
			return errors.New("ipc.socket_path must not be empty when touch.source is ipc")
		}
	case "script":
		if c.Touch.Script == "" {
			return errors.New("touch.script must not be empty when touch.source is script")
		}
	default:
		return fmt.Errorf("touch.source must be one of: evdev, ipc, script (got %q)", c.Touch.Source)
	}
	if c.Touch.AcquireTimeoutMS < 0 {
		return errors.New("touch.acquire_timeout_ms must be >= 0")
	}
	if c.Touch.IdleDelayMS < 0 {
		return errors.New("touch.idle_delay_ms must be >= 0")
	}

	// Server
	if c.Server.Listen != "" && c.Server.WSPath == "" {
		return errors.New("server.ws_path must not be empty")
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return errors.New("metrics.path must not be empty when metrics are enabled")
	}

	// Logging
	if _, err := parseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return errors.New("logging.format must be text or json")
	}

	return nil
}

// AcquireTimeout returns the bounded-wait duration, 0 meaning no timeout.
func (c *Config) AcquireTimeout() time.Duration {
	return time.Duration(c.Touch.AcquireTimeoutMS) * time.Millisecond
}

// IdleDelay returns the pause between loop iterations.
func (c *Config) IdleDelay() time.Duration {
	return time.Duration(c.Touch.IdleDelayMS) * time.Millisecond
}

// ExpandPath expands a leading "~" in a path using $HOME.
func ExpandPath(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
