// Package keepalive runs the simulator loop: tick, publish status, sleep for
// the delay the tick asked for, until cancelled.
package keepalive

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stigoleg/keep-active/internal/platform"
	"github.com/stigoleg/keep-active/internal/simulator"
	"go.uber.org/zap"
)

// SimulationHealth represents the runtime health of activity simulation
type SimulationHealth int

const (
	SimulationHealthUnknown SimulationHealth = iota
	SimulationHealthOK
	SimulationHealthFailed
)

func (h SimulationHealth) String() string {
	switch h {
	case SimulationHealthOK:
		return "ok"
	case SimulationHealthFailed:
		return "failing"
	default:
		return "unknown"
	}
}

// ErrAlreadyRunning is returned by Start when the loop is active.
var ErrAlreadyRunning = errors.New("keep-alive already running")

// ErrStillStopping is returned by Start while a stopped loop has not exited yet.
var ErrStillStopping = errors.New("keep-alive still stopping")

// Simulator is the part of *simulator.Simulator the loop drives.
type Simulator interface {
	Tick() (simulator.Result, error)
	IdleRemaining() time.Duration
	DefaultDelay() time.Duration
}

// Status is a snapshot of the loop for display.
type Status struct {
	Running       bool
	State         simulator.State
	LastOutcome   simulator.Outcome
	Position      platform.Point
	NextDelay     time.Duration
	IdleRemaining time.Duration
	LastTick      time.Time
	Ticks         int64
	Moves         int64
	LastError     string
	Health        SimulationHealth
}

// SleepFunc blocks for d or until ctx is done, returning ctx.Err() in the latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Keeper owns the simulator loop. The simulator itself is only touched by the
// loop goroutine; Status is safe to call from any goroutine.
type Keeper struct {
	mu      sync.Mutex
	running bool
	sim     Simulator
	logger  *zap.Logger
	sleep   SleepFunc
	cancel  context.CancelFunc
	done    chan struct{}
	status  Status

	// simulationFailCount tracks consecutive pointer failures (atomic for thread-safety)
	simulationFailCount int64
}

// Option configures a Keeper.
type Option func(*Keeper)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(k *Keeper) { k.logger = logger }
}

// WithSleep replaces the context-aware timer sleep.
func WithSleep(sleep SleepFunc) Option {
	return func(k *Keeper) { k.sleep = sleep }
}

// New creates a stopped Keeper for sim.
func New(sim Simulator, opts ...Option) *Keeper {
	k := &Keeper{
		sim:    sim,
		logger: zap.NewNop(),
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(k)
	}
	k.status.NextDelay = sim.DefaultDelay()
	return k
}

// IsRunning returns whether the loop is currently active
func (k *Keeper) IsRunning() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.running
}

// Start launches the loop on its own goroutine. It stops when ctx is
// cancelled or Stop is called.
func (k *Keeper) Start(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.running {
		return ErrAlreadyRunning
	}
	if k.done != nil {
		select {
		case <-k.done:
		default:
			return ErrStillStopping
		}
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	k.cancel = cancel
	k.done = done
	k.running = true
	k.status.Running = true

	go k.loop(loopCtx, done)

	k.logger.Info("keeper: started")
	return nil
}

// Run starts the loop and blocks until ctx is cancelled or Stop is called.
func (k *Keeper) Run(ctx context.Context) error {
	if err := k.Start(ctx); err != nil {
		return err
	}

	k.mu.Lock()
	done := k.done
	k.mu.Unlock()

	<-done
	return nil
}

// Stop stops the loop
func (k *Keeper) Stop() error {
	return k.StopWithTimeout(0)
}

// StopWithTimeout cancels the loop and waits for it to exit.
func (k *Keeper) StopWithTimeout(timeout time.Duration) error {
	k.mu.Lock()
	if !k.running {
		k.mu.Unlock()
		return nil
	}

	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	if k.cancel != nil {
		k.cancel()
		k.cancel = nil
	}
	done := k.done
	k.running = false
	k.status.Running = false
	k.mu.Unlock()

	select {
	case <-done:
		k.logger.Info("keeper: stopped")
		return nil
	case <-time.After(timeout):
		k.logger.Warn("keeper: stop timeout exceeded", zap.Duration("timeout", timeout))
		return context.DeadlineExceeded
	}
}

// Status returns a snapshot of the loop state.
func (k *Keeper) Status() Status {
	k.mu.Lock()
	defer k.mu.Unlock()
	s := k.status
	s.Health = k.GetSimulationHealth()
	return s
}

// GetSimulationHealth returns the current health of activity simulation
func (k *Keeper) GetSimulationHealth() SimulationHealth {
	failCount := atomic.LoadInt64(&k.simulationFailCount)
	if failCount > 0 {
		return SimulationHealthFailed
	}
	return SimulationHealthOK
}

// RecordSimulationFailure increments the failure counter and returns the new count
func (k *Keeper) RecordSimulationFailure() int64 {
	return atomic.AddInt64(&k.simulationFailCount, 1)
}

// ResetSimulationHealth resets the simulation failure counter and returns the previous count
func (k *Keeper) ResetSimulationHealth() int64 {
	return atomic.SwapInt64(&k.simulationFailCount, 0)
}

func (k *Keeper) loop(ctx context.Context, done chan struct{}) {
	defer func() {
		k.mu.Lock()
		if k.done == done {
			k.running = false
			k.status.Running = false
		}
		k.mu.Unlock()
		close(done)
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		res, err := k.sim.Tick()
		k.record(res, err)

		if err := k.sleep(ctx, res.Delay); err != nil {
			return
		}
	}
}

func (k *Keeper) record(res simulator.Result, err error) {
	var ioErr *simulator.PointerIOError
	switch {
	case err == nil:
		if prev := k.ResetSimulationHealth(); prev > 0 {
			k.logger.Info("keeper: pointer access recovered", zap.Int64("failures", prev))
		}
	case errors.As(err, &ioErr):
		n := k.RecordSimulationFailure()
		k.logger.Warn("keeper: pointer access failed, retrying next tick",
			zap.String("op", ioErr.Op), zap.Error(ioErr.Err), zap.Int64("consecutive", n))
	default:
		k.RecordSimulationFailure()
		k.logger.Error("keeper: tick failed", zap.Error(err))
	}

	if res.Outcome == simulator.Moved {
		k.logger.Debug("keeper: moved pointer",
			zap.Stringer("to", res.Position), zap.Duration("next", res.Delay))
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.status.State = res.State
	k.status.LastOutcome = res.Outcome
	k.status.Position = res.Position
	k.status.NextDelay = res.Delay
	k.status.IdleRemaining = k.sim.IdleRemaining()
	k.status.LastTick = time.Now()
	k.status.Ticks++
	if res.Outcome == simulator.Moved {
		k.status.Moves++
	}
	if err != nil {
		k.status.LastError = err.Error()
	} else {
		k.status.LastError = ""
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
