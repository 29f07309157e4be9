package main

import (
	"context"
	"log/slog"
	"time"

	"tinygo.org/x/drivers/touch"
)

// TouchStatus tells a successful acquisition from one that gave up.
type TouchStatus int

const (
	NoTouch TouchStatus = iota
	Touched
)

func (s TouchStatus) String() string {
	if s == Touched {
		return "touched"
	}
	return "no_touch"
}

// Acquisition is the result of a bounded wait for a touch. Point is only
// meaningful when Status is Touched.
type Acquisition struct {
	Status TouchStatus
	Point  Point
	Raw    touch.Point
}

// TouchMapper turns raw resistive samples into display coordinates.
//
// The sensor shares pins with the display, so every sample is read with the
// pins in touch mode and the pins are handed back in display mode before a
// point is returned.
type TouchMapper struct {
	sensor   touch.Pointer
	cal      CalibrationConfig
	pressure PressureConfig
	width    int
	height   int

	pins    *PinBus
	metrics *Metrics
	logger  *slog.Logger
}

func NewTouchMapper(sensor touch.Pointer, cfg Config, layout *Layout, pins *PinBus, metrics *Metrics, logger *slog.Logger) *TouchMapper {
	if logger == nil {
		logger = discardLogger()
	}
	return &TouchMapper{
		sensor:   sensor,
		cal:      cfg.Calibration,
		pressure: cfg.Pressure,
		width:    layout.Width,
		height:   layout.Height,
		pins:     pins,
		metrics:  metrics,
		logger:   logger,
	}
}

// AcquirePoint blocks until a sample inside the pressure window arrives and
// returns it in display space. It never gives up.
func (m *TouchMapper) AcquirePoint() Point {
	for {
		acq := m.Acquire(context.Background(), 0)
		if acq.Status == Touched {
			return acq.Point
		}
	}
}

// Acquire is the bounded form of AcquirePoint. It returns NoTouch when timeout
// elapses (timeout > 0) or ctx is done before a valid sample arrives. The pins
// are back in display mode whichever way it returns.
func (m *TouchMapper) Acquire(ctx context.Context, timeout time.Duration) Acquisition {
	defer m.pins.RestoreDisplayMode()

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		if ctx.Err() != nil {
			return Acquisition{Status: NoTouch}
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			m.metrics.acquireTimeout()
			return Acquisition{Status: NoTouch}
		}

		raw := m.sample()
		if !inRange(raw.Z, m.pressure.Low, m.pressure.High) {
			m.metrics.sampleRejected()
			if raw.Z != 0 {
				m.logger.Debug("touch sample outside pressure window", "x", raw.X, "y", raw.Y, "z", raw.Z)
			}
			continue
		}

		m.metrics.sampleAccepted()
		p := m.Map(raw.X, raw.Y)
		return Acquisition{Status: Touched, Point: p, Raw: raw}
	}
}

func (m *TouchMapper) sample() touch.Point {
	m.pins.Acquire(PinModeTouch)
	defer m.pins.Release()
	return m.sensor.ReadTouchPoint()
}

// Map clamps a raw position into the calibration rectangle and rescales it:
// x from [XLow, XHigh] onto [0, width-1], y from [YLow, YHigh] onto
// [height-1, 0].
func (m *TouchMapper) Map(rawX, rawY int) Point {
	return m.cal.mapPoint(rawX, rawY, m.width, m.height)
}

func (c CalibrationConfig) mapPoint(rawX, rawY, width, height int) Point {
	x := clamp(rawX, c.XLow, c.XHigh)
	y := clamp(rawY, c.YLow, c.YHigh)
	return Point{
		X: rescale(x, c.XLow, c.XHigh, 0, width-1),
		Y: rescale(y, c.YLow, c.YHigh, height-1, 0),
	}
}
