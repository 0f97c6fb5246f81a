//go:build !windows

// Package native provides the pointer and display backend for the host OS.
package native

import (
	"fmt"

	"github.com/go-vgo/robotgo"
	"github.com/stigoleg/keep-active/internal/platform"
)

// Device drives the pointer through robotgo.
type Device struct{}

var _ platform.Device = (*Device)(nil)

// New checks that a display is reachable.
func New() (*Device, error) {
	d := &Device{}
	if _, _, err := d.Resolution(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) Name() string { return "robotgo" }

func (d *Device) Position() (platform.Point, error) {
	x, y := robotgo.Location()
	return platform.Point{X: x, Y: y}, nil
}

// SetPosition moves the pointer. robotgo reports no failures; the OS may
// clamp the target to the last pixel, so callers read the position back.
func (d *Device) SetPosition(p platform.Point) error {
	robotgo.Move(p.X, p.Y)
	return nil
}

func (d *Device) Resolution() (int, int, error) {
	w, h := robotgo.GetScreenSize()
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("robotgo: primary display size unavailable (%dx%d)", w, h)
	}
	return w, h, nil
}
