// Package delay produces the pause between simulator ticks. While the
// pointer is being moved the pause drifts as a bounded random walk so that
// synthetic movement never settles into a fixed period.
package delay

import (
	"errors"
	"math/rand"
	"time"
)

const (
	// DefaultIdleDelay is the poll interval while no movement is issued.
	DefaultIdleDelay = 10 * time.Second
	// DefaultMinMoveDelay and DefaultMaxMoveDelay bound the active delay.
	DefaultMinMoveDelay = 100 * time.Millisecond
	DefaultMaxMoveDelay = 1000 * time.Millisecond

	// AccelerationChangeChance is the per-call probability of reversing
	// the drift direction.
	AccelerationChangeChance = 0.1
	// maxStepPercent bounds the per-call change as a percentage of the current delay.
	maxStepPercent = 10
)

// Config holds the delay bounds.
type Config struct {
	IdleDelay    time.Duration
	MinMoveDelay time.Duration
	MaxMoveDelay time.Duration
}

// DefaultConfig returns the stock delays.
func DefaultConfig() Config {
	return Config{
		IdleDelay:    DefaultIdleDelay,
		MinMoveDelay: DefaultMinMoveDelay,
		MaxMoveDelay: DefaultMaxMoveDelay,
	}
}

// Validate checks that the bounds describe a non-empty range.
func (c Config) Validate() error {
	if c.IdleDelay <= 0 {
		return errors.New("idle delay must be positive")
	}
	if c.MinMoveDelay < time.Millisecond {
		return errors.New("minimum move delay must be at least 1ms")
	}
	if c.MaxMoveDelay.Milliseconds() <= c.MinMoveDelay.Milliseconds() {
		return errors.New("maximum move delay must be greater than minimum move delay")
	}
	return nil
}

// Generator is not safe for concurrent use.
type Generator struct {
	cfg          Config
	rnd          *rand.Rand
	current      time.Duration
	accelerating bool
}

// New creates a generator. A nil rnd is replaced by a time-seeded source.
func New(cfg Config, rnd *rand.Rand) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{cfg: cfg, rnd: rnd}, nil
}

// DefaultDelay returns the idle poll delay.
func (g *Generator) DefaultDelay() time.Duration {
	return g.cfg.IdleDelay
}

// Next advances the random walk and returns the new active delay, which is
// always in [MinMoveDelay, MaxMoveDelay).
func (g *Generator) Next() time.Duration {
	if !g.inRange(g.current) {
		g.current = g.reseed()
		return g.current
	}

	if g.rnd.Float64() > 1-AccelerationChangeChance {
		g.accelerating = !g.accelerating
	}

	direction := -1
	if g.accelerating {
		direction = 1
	}

	ms := float64(g.current.Milliseconds())
	percent := float64(g.rnd.Intn(maxStepPercent)) / 100
	next := time.Duration(int64(ms+percent*ms*float64(direction))) * time.Millisecond

	if !g.inRange(next) {
		next = g.reseed()
	}
	g.current = next
	return g.current
}

// Current returns the last value produced by Next, or zero before the first call.
func (g *Generator) Current() time.Duration {
	return g.current
}

// Reset drops the walk state so the next call to Next reseeds.
func (g *Generator) Reset() {
	g.current = 0
}

func (g *Generator) inRange(d time.Duration) bool {
	return d >= g.cfg.MinMoveDelay && d < g.cfg.MaxMoveDelay
}

func (g *Generator) reseed() time.Duration {
	minMs := g.cfg.MinMoveDelay.Milliseconds()
	maxMs := g.cfg.MaxMoveDelay.Milliseconds()
	return time.Duration(minMs+g.rnd.Int63n(maxMs-minMs)) * time.Millisecond
}
