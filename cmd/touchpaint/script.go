package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
	"tinygo.org/x/drivers/touch"
)

// Script is a recorded touch session replayed through the normal mapper path.
//
//	delay_ms: 20
//	samples:
//	  - {x: 580, y: 600, z: 300}
//	  - {x: 600, y: 610, z: 300, repeat: 5}
type Script struct {
	DelayMS int            `yaml:"delay_ms"`
	Samples []ScriptSample `yaml:"samples"`
}

// ScriptSample is one raw reading. Repeat > 1 emits it that many times.
type ScriptSample struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Z      int `yaml:"z"`
	Repeat int `yaml:"repeat,omitempty"`
}

func LoadScriptFile(path string) (*Script, error) {
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return parseScript(b)
}

func parseScript(b []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script yaml: %w", err)
	}
	if err := rejectTrailingDocument(dec); err != nil {
		return nil, fmt.Errorf("decode script yaml: %w", err)
	}
	if s.DelayMS < 0 {
		return nil, errors.New("script delay_ms must be >= 0")
	}
	if len(s.Samples) == 0 {
		return nil, errors.New("script has no samples")
	}
	for i, smp := range s.Samples {
		if smp.Repeat < 0 {
			return nil, fmt.Errorf("script sample %d: repeat must be >= 0", i)
		}
	}
	return &s, nil
}

// scriptSensor replays a Script as a touch.Pointer. Once the script runs out
// it reports zero pressure and closes Done.
type scriptSensor struct {
	delay time.Duration
	raw   []touch.Point

	mu   sync.Mutex
	next int

	done     chan struct{}
	doneOnce sync.Once
}

var _ touch.Pointer = (*scriptSensor)(nil)

func newScriptSensor(s *Script) *scriptSensor {
	var raw []touch.Point
	for _, smp := range s.Samples {
		n := smp.Repeat
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			raw = append(raw, touch.Point{X: smp.X, Y: smp.Y, Z: smp.Z})
		}
	}
	return &scriptSensor{
		delay: time.Duration(s.DelayMS) * time.Millisecond,
		raw:   raw,
		done:  make(chan struct{}),
	}
}

func (s *scriptSensor) ReadTouchPoint() touch.Point {
	s.mu.Lock()
	if s.next >= len(s.raw) {
		s.mu.Unlock()
		s.doneOnce.Do(func() { close(s.done) })
		time.Sleep(queuePollInterval)
		return touch.Point{}
	}
	p := s.raw[s.next]
	s.next++
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return p
}

// Done is closed after the last sample has been handed out and the sensor has
// been polled once more.
func (s *scriptSensor) Done() <-chan struct{} {
	return s.done
}
