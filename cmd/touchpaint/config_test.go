package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Validates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.AcquireTimeout() != 0 {
		t.Fatalf("default acquire timeout = %v, want 0 (wait forever)", cfg.AcquireTimeout())
	}
	if cfg.IdleDelay() != 5*time.Millisecond {
		t.Fatalf("default idle delay = %v", cfg.IdleDelay())
	}
}

func TestDecodeConfig_OverridesOnTopOfDefaults(t *testing.T) {
	cfg, err := decodeConfig([]byte(`
calibration:
  x_low: 100
  x_high: 900
touch:
  source: ipc
  acquire_timeout_ms: 250
palette:
  colors: [black, gray, white, yellow, magenta, cyan, blue, green, red]
logging:
  level: debug
  format: json
`))
	if err != nil {
		t.Fatalf("decodeConfig: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Calibration.XLow != 100 || cfg.Calibration.XHigh != 900 {
		t.Fatalf("calibration x = %d..%d", cfg.Calibration.XLow, cfg.Calibration.XHigh)
	}
	// Untouched keys keep their defaults.
	if cfg.Calibration.YLow != 963 || cfg.Calibration.YHigh != 205 {
		t.Fatalf("calibration y = %d..%d, want defaults", cfg.Calibration.YLow, cfg.Calibration.YHigh)
	}
	if cfg.Pressure != (PressureConfig{Low: 10, High: 1200}) {
		t.Fatalf("pressure = %+v", cfg.Pressure)
	}
	if cfg.AcquireTimeout() != 250*time.Millisecond {
		t.Fatalf("acquire timeout = %v", cfg.AcquireTimeout())
	}
	if cfg.Palette.Colors[0] != "black" {
		t.Fatalf("palette not overridden: %v", cfg.Palette.Colors)
	}
	if NewLayout(cfg).Palette[0].Color != ColorBlack {
		t.Fatalf("layout ignored palette override")
	}
}

func TestDecodeConfig_RejectsUnknownFields(t *testing.T) {
	_, err := decodeConfig([]byte("display:\n  widht: 320\n"))
	if err == nil {
		t.Fatalf("expected error for misspelled key")
	}
}

func TestDecodeConfig_RejectsTrailingDocument(t *testing.T) {
	_, err := decodeConfig([]byte("logging:\n  level: info\n---\nlogging:\n  level: debug\n"))
	if err == nil || !strings.Contains(err.Error(), "trailing document") {
		t.Fatalf("expected trailing document error, got %v", err)
	}

	// A trailing document with only unknown keys is refused too.
	if _, err := decodeConfig([]byte("logging:\n  level: info\n---\nbogus: 1\n")); err == nil {
		t.Fatalf("expected trailing document error for unknown-key document")
	}

	cfg, err := decodeConfig([]byte("logging:\n  level: debug\n# trailing comment\n\n"))
	if err != nil {
		t.Fatalf("trailing comment rejected: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "touchpaint.yaml")
	if err := os.WriteFile(path, []byte("pressure:\n  low: 50\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.Pressure.Low != 50 || cfg.Pressure.High != 1200 {
		t.Fatalf("pressure = %+v", cfg.Pressure)
	}

	if _, err := LoadConfigFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := LoadConfigFile(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestConfigValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Display.Width = 0 }, "display.width"},
		{"rotation", func(c *Config) { c.Display.Rotation = 4 }, "display.rotation"},
		{"flat x calibration", func(c *Config) { c.Calibration.XHigh = c.Calibration.XLow }, "calibration.x_low"},
		{"flat y calibration", func(c *Config) { c.Calibration.YHigh = c.Calibration.YLow }, "calibration.y_low"},
		{"pressure order", func(c *Config) { c.Pressure.Low = 2000 }, "pressure.low"},
		{"margin too big", func(c *Config) { c.Canvas.Margin = 200 }, "canvas.margin"},
		{"short palette", func(c *Config) { c.Palette.Colors = c.Palette.Colors[:8] }, "palette.colors"},
		{"bad colour", func(c *Config) { c.Palette.Colors[4] = "mauve" }, "palette.colors[4]"},
		{"columns", func(c *Config) { c.Palette.Columns = 2 }, "palette.columns"},
		{"thickness count", func(c *Config) { c.Thickness.Values = []int{3, 5} }, "thickness.values"},
		{"negative palette anchor", func(c *Config) { c.Palette.AnchorX = -5 }, "palette.anchor_x"},
		{"negative palette spacing", func(c *Config) { c.Palette.Spacing = -35 }, "palette.spacing"},
		{"negative thickness start", func(c *Config) { c.Thickness.StartX = -1 }, "thickness.start_x"},
		{"negative thickness spacing", func(c *Config) { c.Thickness.Spacing = -35 }, "thickness.spacing"},
		{"widget row above panel", func(c *Config) { c.Canvas.WidgetGap = -400 }, "canvas.widget_gap"},
		{"hex colour with junk", func(c *Config) { c.Palette.Colors[0] = "0xF800zz" }, "palette.colors[0]"},
		{"thickness zero", func(c *Config) { c.Thickness.Values[2] = 0 }, "thickness.values[2]"},
		{"touch source", func(c *Config) { c.Touch.Source = "serial" }, "touch.source"},
		{"script path", func(c *Config) { c.Touch.Source = "script" }, "touch.script"},
		{"ipc without socket", func(c *Config) { c.Touch.Source = "ipc"; c.IPC.SocketPath = "" }, "ipc.socket_path"},
		{"negative timeout", func(c *Config) { c.Touch.AcquireTimeoutMS = -1 }, "acquire_timeout_ms"},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestFlagOverrides_ApplyOnlySetFields(t *testing.T) {
	cfg := DefaultConfig()
	src := "script"
	script := "/tmp/strokes.yaml"
	timeout := 0
	listen := ""

	FlagOverrides{
		TouchSource:    &src,
		TouchScript:    &script,
		AcquireTimeout: &timeout,
		Listen:         &listen,
	}.Apply(&cfg)

	if cfg.Touch.Source != "script" || cfg.Touch.Script != script {
		t.Fatalf("touch = %+v", cfg.Touch)
	}
	// Zero values still override when given.
	if cfg.Server.Listen != "" {
		t.Fatalf("listen = %q, want disabled", cfg.Server.Listen)
	}
	if cfg.Touch.Device != "/dev/input/event0" || cfg.Logging.Level != "info" {
		t.Fatalf("unset overrides changed the config")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	FlagOverrides{}.Apply(nil) // must not panic
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/x.yaml"); got != filepath.Join(home, "x.yaml") {
		t.Fatalf("ExpandPath = %q", got)
	}
	if got := ExpandPath("/etc/x"); got != "/etc/x" {
		t.Fatalf("absolute path changed: %q", got)
	}
	if got := ExpandPath("~other/x"); got != "~other/x" {
		t.Fatalf("~user form changed: %q", got)
	}
}
