package simulator

import (
	"math/rand"

	"github.com/stigoleg/keep-active/internal/platform"
)

// walker produces a meandering sequence of small pointer offsets that bounce
// off the screen edges.
type walker struct {
	rnd        *rand.Rand
	maxStep    int
	flipChance float64
	dirX       int
	dirY       int
}

func newWalker(rnd *rand.Rand, maxStep int, flipChance float64) *walker {
	return &walker{rnd: rnd, maxStep: maxStep, flipChance: flipChance, dirX: 1, dirY: 1}
}

// next returns the position to move to from cur on a width x height screen.
//
// Each axis draws a step in [0, maxStep) and may randomly reverse direction.
// If the candidate leaves the screen the axis reverses again and the same
// step is applied in the new direction, so a random flip and an edge bounce
// in one tick cancel out.
func (w *walker) next(cur platform.Point, width, height int) platform.Point {
	stepX := w.rnd.Intn(w.maxStep)
	stepY := w.rnd.Intn(w.maxStep)

	if w.rnd.Float64() > 1-w.flipChance {
		w.dirX = -w.dirX
	}
	if w.rnd.Float64() > 1-w.flipChance {
		w.dirY = -w.dirY
	}

	candX := cur.X + w.dirX*stepX
	candY := cur.Y + w.dirY*stepY

	if candX > width || candX < 0 {
		w.dirX = -w.dirX
	}
	if candY > height || candY < 0 {
		w.dirY = -w.dirY
	}

	return platform.Point{
		X: clamp(cur.X+w.dirX*stepX, 0, width),
		Y: clamp(cur.Y+w.dirY*stepY, 0, height),
	}
}

// clamp keeps pointers that start off the primary display inside it.
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
