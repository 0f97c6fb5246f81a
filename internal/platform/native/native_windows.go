//go:build windows

// Package native provides the pointer and display backend for the host OS.
package native

import (
	"fmt"
	"unsafe"

	"github.com/stigoleg/keep-active/internal/platform"
	"golang.org/x/sys/windows"
)

const (
	smCxScreen = 0
	smCyScreen = 1
)

var (
	modUser32            = windows.NewLazySystemDLL("user32.dll")
	procGetCursorPos     = modUser32.NewProc("GetCursorPos")
	procSetCursorPos     = modUser32.NewProc("SetCursorPos")
	procGetSystemMetrics = modUser32.NewProc("GetSystemMetrics")
)

// winPoint mirrors the Win32 POINT struct.
type winPoint struct {
	X int32
	Y int32
}

// Device drives the pointer through user32.
type Device struct{}

var _ platform.Device = (*Device)(nil)

// New resolves the user32 procedures the device needs.
func New() (*Device, error) {
	for _, proc := range []*windows.LazyProc{procGetCursorPos, procSetCursorPos, procGetSystemMetrics} {
		if err := proc.Find(); err != nil {
			return nil, fmt.Errorf("user32: %w", err)
		}
	}
	return &Device{}, nil
}

func (d *Device) Name() string { return "user32" }

// Position returns the cursor position via GetCursorPos.
func (d *Device) Position() (platform.Point, error) {
	var pt winPoint
	r, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if r == 0 {
		return platform.Point{}, fmt.Errorf("GetCursorPos: %w", err)
	}
	return platform.Point{X: int(pt.X), Y: int(pt.Y)}, nil
}

// SetPosition moves the cursor via SetCursorPos.
func (d *Device) SetPosition(p platform.Point) error {
	r, _, err := procSetCursorPos.Call(uintptr(int32(p.X)), uintptr(int32(p.Y)))
	if r == 0 {
		return fmt.Errorf("SetCursorPos(%d, %d): %w", p.X, p.Y, err)
	}
	return nil
}

// Resolution returns the primary display size via GetSystemMetrics.
func (d *Device) Resolution() (int, int, error) {
	w, _, _ := procGetSystemMetrics.Call(smCxScreen)
	h, _, _ := procGetSystemMetrics.Call(smCyScreen)
	if w == 0 || h == 0 {
		return 0, 0, fmt.Errorf("GetSystemMetrics: primary display size unavailable (%dx%d)", w, h)
	}
	return int(w), int(h), nil
}
