//go:build !linux

package main

import (
	"errors"
	"os"
)

type touchDevice struct {
	file        *os.File
	hasPressure bool
}

func openTouchDevice(path string, grab bool) (*touchDevice, error) {
	return nil, errors.New("evdev touch input is only supported on linux")
}

func (d *touchDevice) Close() error { return d.file.Close() }

func (d *touchDevice) logAttrs() []any { return nil }
