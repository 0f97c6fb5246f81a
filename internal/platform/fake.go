package platform

import "sync"

// Fake is an in-memory Device. The zero value is a 0x0 screen with the
// pointer at the origin.
type Fake struct {
	mu       sync.Mutex
	pos      Point
	width    int
	height   int
	moves    []Point
	getErr   error
	setErr   error
	sizeErr  error
	dropSets bool
}

// NewFake returns a Fake with the given screen size and pointer position.
func NewFake(width, height int, pos Point) *Fake {
	return &Fake{width: width, height: height, pos: pos}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Position() (Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return Point{}, f.getErr
	}
	return f.pos, nil
}

func (f *Fake) SetPosition(p Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.moves = append(f.moves, p)
	if !f.dropSets {
		f.pos = p
	}
	return nil
}

func (f *Fake) Resolution() (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sizeErr != nil {
		return 0, 0, f.sizeErr
	}
	return f.width, f.height, nil
}

// UserMove simulates the user moving the pointer.
func (f *Fake) UserMove(p Point) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pos = p
}

// Moves returns the positions passed to SetPosition.
func (f *Fake) Moves() []Point {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Point, len(f.moves))
	copy(out, f.moves)
	return out
}

// FailPosition makes Position return err until cleared with nil.
func (f *Fake) FailPosition(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErr = err
}

// FailSetPosition makes SetPosition return err until cleared with nil.
func (f *Fake) FailSetPosition(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setErr = err
}

// FailResolution makes Resolution return err until cleared with nil.
func (f *Fake) FailResolution(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sizeErr = err
}

// IgnoreSets makes SetPosition record the target without moving the pointer,
// like a backend that silently drops the request.
func (f *Fake) IgnoreSets(ignore bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropSets = ignore
}
