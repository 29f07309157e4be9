package main

import (
	"errors"
	"time"

	"tinygo.org/x/drivers/touch"
)

// queuePollInterval bounds how long ReadTouchPoint waits for a queued sample
// before reporting "no touch", so callers polling it never spin hot.
const queuePollInterval = 10 * time.Millisecond

var errQueueFull = errors.New("touch queue full")

// queueSensor is a touch.Pointer fed from outside the process, e.g. by IPC
// touch_sample events.
type queueSensor struct {
	samples chan touch.Point
	poll    time.Duration
}

var _ touch.Pointer = (*queueSensor)(nil)

func newQueueSensor(size int) *queueSensor {
	if size <= 0 {
		size = 64
	}
	return &queueSensor{
		samples: make(chan touch.Point, size),
		poll:    queuePollInterval,
	}
}

// Push enqueues a raw sample without blocking.
func (q *queueSensor) Push(p touch.Point) error {
	select {
	case q.samples <- p:
		return nil
	default:
		return errQueueFull
	}
}

// ReadTouchPoint returns the next queued sample, or a zero-pressure point if
// none arrives within the poll interval.
func (q *queueSensor) ReadTouchPoint() touch.Point {
	select {
	case p := <-q.samples:
		return p
	default:
	}

	t := time.NewTimer(q.poll)
	defer t.Stop()
	select {
	case p := <-q.samples:
		return p
	case <-t.C:
		return touch.Point{}
	}
}
