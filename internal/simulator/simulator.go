// Package simulator decides on every tick whether to nudge the pointer:
// only inside a permitted time window, only after the user has been idle
// for the configured threshold, and never while the user is moving it.
package simulator

import (
	"errors"
	"math/rand"
	"time"

	"github.com/stigoleg/keep-active/internal/delay"
	"github.com/stigoleg/keep-active/internal/platform"
	"github.com/stigoleg/keep-active/internal/rules"
	"go.uber.org/zap"
)

const (
	DefaultIdleThreshold         = 5 * time.Minute
	DefaultMaxStep               = 10
	DefaultDirectionChangeChance = 0.1
)

// Config tunes idle detection and movement.
type Config struct {
	IdleThreshold         time.Duration
	MaxStep               int
	DirectionChangeChance float64
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		IdleThreshold:         DefaultIdleThreshold,
		MaxStep:               DefaultMaxStep,
		DirectionChangeChance: DefaultDirectionChangeChance,
	}
}

func (c Config) Validate() error {
	if c.IdleThreshold < 0 {
		return errors.New("idle threshold must not be negative")
	}
	if c.MaxStep < 1 {
		return errors.New("max step must be at least 1 pixel")
	}
	if c.DirectionChangeChance < 0 || c.DirectionChangeChance > 1 {
		return errors.New("direction change chance must be within [0, 1]")
	}
	return nil
}

// Result describes one tick.
type Result struct {
	Outcome Outcome
	State   State
	// Previous is the last known position before the tick, Position after it.
	Previous platform.Point
	Position platform.Point
	// Delay is how long the driver should sleep before the next tick.
	Delay time.Duration
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// WithRand sets the random source for movement.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Simulator) { s.rnd = rnd }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulator) { s.logger = logger }
}

// Simulator is not safe for concurrent use; one driver loop owns it.
type Simulator struct {
	cfg     Config
	rules   *rules.RuleSet
	delays  *delay.Generator
	pointer platform.Pointer
	screen  platform.ScreenInfoProvider

	now    func() time.Time
	rnd    *rand.Rand
	logger *zap.Logger
	walker *walker

	last      platform.Point
	idleSince time.Time
	state     State
}

// New builds a simulator and records the current pointer position as the
// starting point. The idle threshold is counted from construction.
func New(rs *rules.RuleSet, delays *delay.Generator, pointer platform.Pointer, screen platform.ScreenInfoProvider, cfg Config, opts ...Option) (*Simulator, error) {
	if rs == nil || delays == nil || pointer == nil || screen == nil {
		return nil, errors.New("simulator: rules, delays, pointer and screen are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulator{
		cfg:     cfg,
		rules:   rs,
		delays:  delays,
		pointer: pointer,
		screen:  screen,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.walker = newWalker(s.rnd, cfg.MaxStep, cfg.DirectionChangeChance)

	pos, err := pointer.Position()
	if err != nil {
		return nil, &PointerIOError{Op: OpGetPosition, Err: err}
	}
	s.last = pos
	s.idleSince = s.now()
	return s, nil
}

// Tick runs one step of the state machine. A *PointerIOError leaves the
// state untouched and carries the idle delay in Result.Delay.
func (s *Simulator) Tick() (Result, error) {
	now := s.now()
	res := Result{
		Outcome:  NoMovement,
		Previous: s.last,
		Position: s.last,
		Delay:    s.delays.DefaultDelay(),
	}

	if !s.rules.IsPermittedAt(now) {
		s.idleSince = now
		res.State = s.enter(StateOutOfWindow)
		return res, nil
	}

	if now.Sub(s.idleSince) < s.cfg.IdleThreshold {
		res.State = s.enter(StateWaitingIdleThreshold)
		return res, nil
	}

	current, err := s.pointer.Position()
	if err != nil {
		res.State = s.state
		return res, &PointerIOError{Op: OpGetPosition, Err: err}
	}

	if current != s.last {
		s.logger.Debug("simulator: user activity detected",
			zap.Stringer("from", s.last), zap.Stringer("to", current))
		s.last = current
		s.idleSince = now
		res.Position = current
		res.State = s.enter(StateUserActive)
		return res, nil
	}

	width, height, err := s.screen.Resolution()
	if err != nil {
		res.State = s.state
		return res, &PointerIOError{Op: OpResolution, Err: err}
	}

	target := s.walker.next(current, width, height)
	if err := s.pointer.SetPosition(target); err != nil {
		// The pointer may have moved anyway; remember where it ended up so
		// the next tick does not mistake it for the user.
		if settled, perr := s.pointer.Position(); perr == nil {
			s.last = settled
			res.Position = settled
		}
		res.State = s.state
		return res, &PointerIOError{Op: OpSetPosition, Err: err}
	}

	after, err := s.pointer.Position()
	if err != nil {
		s.last = target
		res.State = s.state
		return res, &PointerIOError{Op: OpGetPosition, Err: err}
	}
	s.last = after

	res.Outcome = Moved
	res.Position = after
	res.State = s.enter(StateActivelyJiggling)
	res.Delay = s.delays.Next()
	return res, nil
}

// State returns the state entered by the last successful tick.
func (s *Simulator) State() State {
	return s.state
}

// IdleRemaining returns how long until movement may start if the user stays
// idle. It is zero once the threshold has passed.
func (s *Simulator) IdleRemaining() time.Duration {
	remaining := s.cfg.IdleThreshold - s.now().Sub(s.idleSince)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// LastPosition returns the last known pointer position.
func (s *Simulator) LastPosition() platform.Point {
	return s.last
}

// Rules returns the rule set the simulator evaluates.
func (s *Simulator) Rules() *rules.RuleSet {
	return s.rules
}

// DefaultDelay returns the idle poll delay.
func (s *Simulator) DefaultDelay() time.Duration {
	return s.delays.DefaultDelay()
}

func (s *Simulator) enter(next State) State {
	if next == s.state {
		return next
	}
	if s.state == StateActivelyJiggling {
		s.delays.Reset()
	}
	s.logger.Debug("simulator: state changed",
		zap.Stringer("from", s.state), zap.Stringer("to", next))
	s.state = next
	return next
}
