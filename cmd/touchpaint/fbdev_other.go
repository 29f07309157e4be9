//go:build !linux

package main

import "errors"

type fbdevOutput struct{}

func openFbdev(path string, width, height int) (*fbdevOutput, error) {
	return nil, errors.New("framebuffer output is only supported on linux")
}

func (o *fbdevOutput) Present(buf []byte) error { return nil }

func (o *fbdevOutput) Close() error { return nil }
