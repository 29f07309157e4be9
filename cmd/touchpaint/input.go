package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"sync"
	"time"

	"tinygo.org/x/drivers/touch"
)

// inputEvent represents a Linux input event structure
// struct input_event { struct timeval time; __u16 type; __u16 code; __s32 value; };
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// readInputEvents reads input events from r and sends them to a channel.
// This runs in a dedicated goroutine and blocks on read operations. It stops
// once ctx is done and a pending send or read completes.
func readInputEvents(ctx context.Context, r io.Reader, events chan<- inputEvent, readErr chan<- error) {
	evSize := binary.Size(inputEvent{})
	buf := make([]byte, evSize)
	reader := bytes.NewReader(buf)

	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			select {
			case readErr <- err:
			case <-ctx.Done():
			}
			return
		}

		reader.Reset(buf)
		var ev inputEvent
		if err := binary.Read(reader, binary.LittleEndian, &ev); err != nil {
			// Skip malformed events
			continue
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// evdevSensor is a touch.Pointer over a Linux touchscreen event stream. It
// folds EV_ABS/EV_KEY updates into a frame on every SYN_REPORT and reports
// the latest frame when polled.
type evdevSensor struct {
	mu sync.Mutex

	// pending frame
	x, y, pressure int
	touching       bool
	sawButton      bool

	cur touch.Point

	hasPressureAxis bool
	defaultPressure int // reported when the device has no pressure axis

	frames chan struct{}
	poll   time.Duration
}

var _ touch.Pointer = (*evdevSensor)(nil)

// newEvdevSensor builds a sensor. defaultPressure is reported for a held
// contact on devices without ABS_PRESSURE.
func newEvdevSensor(hasPressureAxis bool, defaultPressure int) *evdevSensor {
	return &evdevSensor{
		hasPressureAxis: hasPressureAxis,
		defaultPressure: defaultPressure,
		frames:          make(chan struct{}, 1),
		poll:            queuePollInterval,
	}
}

// handle applies one input event.
func (s *evdevSensor) handle(ev inputEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Type {
	case EV_ABS:
		switch ev.Code {
		case ABS_X:
			s.x = int(ev.Value)
		case ABS_Y:
			s.y = int(ev.Value)
		case ABS_PRESSURE:
			s.pressure = int(ev.Value)
		}

	case EV_KEY:
		if ev.Code == BTN_TOUCH {
			s.sawButton = true
			s.touching = ev.Value != evValueRelease
		}

	case EV_SYN:
		if ev.Code != SYN_REPORT {
			return
		}
		s.cur = touch.Point{X: s.x, Y: s.y, Z: s.framePressure()}
		select {
		case s.frames <- struct{}{}:
		default:
		}
	}
}

func (s *evdevSensor) framePressure() int {
	if s.sawButton && !s.touching {
		return 0
	}
	if s.hasPressureAxis {
		return s.pressure
	}
	if s.touching {
		return s.defaultPressure
	}
	return 0
}

// ReadTouchPoint returns the latest frame. While nothing is pressed it waits
// up to the poll interval for a new frame first.
func (s *evdevSensor) ReadTouchPoint() touch.Point {
	s.mu.Lock()
	p := s.cur
	s.mu.Unlock()
	if p.Z != 0 {
		return p
	}

	t := time.NewTimer(s.poll)
	defer t.Stop()
	select {
	case <-s.frames:
	case <-t.C:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// run feeds events into the sensor until ctx is done or the reader fails.
func (s *evdevSensor) run(ctx context.Context, events <-chan inputEvent, readErr <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case ev := <-events:
			s.handle(ev)
		}
	}
}
