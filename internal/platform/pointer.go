// Package platform defines the narrow OS capabilities the simulator depends
// on: reading and moving the pointer, and reading the primary display size.
package platform

import "fmt"

// Point is a pointer position in screen pixels.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Pointer reads and writes the pointer position.
type Pointer interface {
	Position() (Point, error)
	SetPosition(p Point) error
}

// ScreenInfoProvider reports the primary display resolution in pixels.
type ScreenInfoProvider interface {
	Resolution() (width, height int, err error)
}

// Device is a platform backend providing both capabilities.
type Device interface {
	Pointer
	ScreenInfoProvider
	Name() string
}
