package keepalive

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stigoleg/keep-active/internal/delay"
	"github.com/stigoleg/keep-active/internal/platform"
	"github.com/stigoleg/keep-active/internal/rules"
	"github.com/stigoleg/keep-active/internal/simulator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	res simulator.Result
	err error
}

// scriptedSim replays steps, then idles with a one-millisecond delay.
type scriptedSim struct {
	mu    sync.Mutex
	steps []step
	next  int
}

func (s *scriptedSim) Tick() (simulator.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next < len(s.steps) {
		st := s.steps[s.next]
		s.next++
		return st.res, st.err
	}
	return simulator.Result{Delay: time.Millisecond}, nil
}

func (s *scriptedSim) IdleRemaining() time.Duration { return time.Minute }
func (s *scriptedSim) DefaultDelay() time.Duration  { return 10 * time.Second }

// recordingSleep reports each requested delay and parks once limit sleeps happened.
func recordingSleep(limit int) (SleepFunc, <-chan time.Duration) {
	slept := make(chan time.Duration, limit)
	var mu sync.Mutex
	count := 0
	return func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		count++
		n := count
		mu.Unlock()

		if n <= limit {
			slept <- d
		}
		if n >= limit {
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	}, slept
}

func receive(t *testing.T, ch <-chan time.Duration) time.Duration {
	t.Helper()
	select {
	case d := <-ch:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the loop to sleep")
		return 0
	}
}

func TestKeeperSleepsForTickDelay(t *testing.T) {
	ioErr := &simulator.PointerIOError{Op: simulator.OpSetPosition, Err: errors.New("denied")}
	sim := &scriptedSim{steps: []step{
		{res: simulator.Result{Outcome: simulator.NoMovement, State: simulator.StateWaitingIdleThreshold, Delay: 10 * time.Second}},
		{res: simulator.Result{Outcome: simulator.Moved, State: simulator.StateActivelyJiggling, Position: platform.Point{X: 3, Y: 4}, Delay: 250 * time.Millisecond}},
		{res: simulator.Result{Outcome: simulator.NoMovement, State: simulator.StateActivelyJiggling, Position: platform.Point{X: 3, Y: 4}, Delay: 10 * time.Second}, err: ioErr},
	}}
	sleep, slept := recordingSleep(3)

	k := New(sim, WithSleep(sleep))
	require.NoError(t, k.Start(context.Background()))
	defer k.Stop()

	assert.Equal(t, 10*time.Second, receive(t, slept))
	assert.Equal(t, 250*time.Millisecond, receive(t, slept))
	assert.Equal(t, 10*time.Second, receive(t, slept))

	st := k.Status()
	assert.True(t, st.Running)
	assert.Equal(t, int64(3), st.Ticks)
	assert.Equal(t, int64(1), st.Moves)
	assert.Equal(t, platform.Point{X: 3, Y: 4}, st.Position)
	assert.Contains(t, st.LastError, "pointer set position")
	assert.Equal(t, SimulationHealthFailed, st.Health)
	assert.Equal(t, time.Minute, st.IdleRemaining)

	require.NoError(t, k.Stop())
	assert.False(t, k.IsRunning())
	assert.False(t, k.Status().Running)
}

// gatedSleep reports each requested delay and holds the loop until the test
// sends on release.
func gatedSleep() (SleepFunc, <-chan time.Duration, chan<- struct{}) {
	slept := make(chan time.Duration, 16)
	release := make(chan struct{})
	return func(ctx context.Context, d time.Duration) error {
		slept <- d
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}, slept, release
}

func TestKeeperRecoversAfterPointerFailure(t *testing.T) {
	ioErr := &simulator.PointerIOError{Op: simulator.OpGetPosition, Err: errors.New("busy")}
	sim := &scriptedSim{steps: []step{
		{res: simulator.Result{Delay: time.Second}, err: ioErr},
		{res: simulator.Result{Delay: time.Second}, err: ioErr},
		{res: simulator.Result{Outcome: simulator.Moved, Delay: 100 * time.Millisecond}},
	}}
	sleep, slept, release := gatedSleep()

	k := New(sim, WithSleep(sleep))
	require.NoError(t, k.Start(context.Background()))
	defer k.Stop()

	receive(t, slept)
	assert.Equal(t, SimulationHealthFailed, k.GetSimulationHealth())
	release <- struct{}{}

	receive(t, slept)
	st := k.Status()
	assert.Equal(t, SimulationHealthFailed, st.Health)
	assert.Contains(t, st.LastError, "busy")
	release <- struct{}{}

	assert.Equal(t, 100*time.Millisecond, receive(t, slept))
	st = k.Status()
	assert.Equal(t, SimulationHealthOK, st.Health)
	assert.Empty(t, st.LastError)
	assert.Equal(t, int64(1), st.Moves)
}

func TestKeeperStartTwice(t *testing.T) {
	sleep, _ := recordingSleep(1)
	k := New(&scriptedSim{}, WithSleep(sleep))

	require.NoError(t, k.Start(context.Background()))
	defer k.Stop()
	assert.ErrorIs(t, k.Start(context.Background()), ErrAlreadyRunning)
}

func TestKeeperStopWhenNotRunning(t *testing.T) {
	k := New(&scriptedSim{})
	assert.NoError(t, k.Stop())
	assert.NoError(t, k.Stop())
	assert.Equal(t, 10*time.Second, k.Status().NextDelay)
}

func TestKeeperRunCancelInterruptsSleep(t *testing.T) {
	sim := &scriptedSim{steps: []step{{res: simulator.Result{Delay: time.Hour}}}}
	k := New(sim)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- k.Run(ctx) }()

	require.Eventually(t, func() bool { return k.Status().Ticks == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.False(t, k.IsRunning())
}

func TestKeeperRestart(t *testing.T) {
	k := New(&scriptedSim{steps: []step{{res: simulator.Result{Delay: time.Hour}}}})

	require.NoError(t, k.Start(context.Background()))
	require.NoError(t, k.Stop())
	require.NoError(t, k.Start(context.Background()))
	assert.True(t, k.IsRunning())
	require.NoError(t, k.Stop())
}

func TestKeeperDrivesSimulator(t *testing.T) {
	var src strings.Builder
	for _, day := range []string{"mo", "tu", "we", "th", "fr", "sa", "su"} {
		src.WriteString(day + ";00:00;23:59\n")
	}
	rs, err := rules.Parse(strings.NewReader(src.String()))
	require.NoError(t, err)

	delays, err := delay.New(delay.Config{
		IdleDelay:    time.Millisecond,
		MinMoveDelay: time.Millisecond,
		MaxMoveDelay: 3 * time.Millisecond,
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	dev := platform.NewFake(640, 480, platform.Point{X: 320, Y: 240})
	cfg := simulator.DefaultConfig()
	cfg.IdleThreshold = 0
	sim, err := simulator.New(rs, delays, dev, dev, cfg, simulator.WithRand(rand.New(rand.NewSource(2))))
	require.NoError(t, err)

	k := New(sim)
	require.NoError(t, k.Start(context.Background()))
	require.Eventually(t, func() bool { return k.Status().Moves >= 20 }, 5*time.Second, 5*time.Millisecond)
	require.NoError(t, k.Stop())

	for _, p := range dev.Moves() {
		assert.True(t, p.X >= 0 && p.X <= 640 && p.Y >= 0 && p.Y <= 480, "move %s off screen", p)
	}
	assert.Equal(t, SimulationHealthOK, k.GetSimulationHealth())
}

// blockingSim parks inside Tick until unblock is closed.
type blockingSim struct {
	entered chan struct{}
	unblock chan struct{}
}

func (s *blockingSim) Tick() (simulator.Result, error) {
	select {
	case s.entered <- struct{}{}:
	default:
	}
	<-s.unblock
	return simulator.Result{Delay: time.Millisecond}, nil
}

func (s *blockingSim) IdleRemaining() time.Duration { return 0 }
func (s *blockingSim) DefaultDelay() time.Duration  { return time.Millisecond }

func TestKeeperRefusesStartUntilLoopExits(t *testing.T) {
	sim := &blockingSim{entered: make(chan struct{}, 1), unblock: make(chan struct{})}
	k := New(sim)

	require.NoError(t, k.Start(context.Background()))
	select {
	case <-sim.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("loop never ticked")
	}

	assert.ErrorIs(t, k.StopWithTimeout(10*time.Millisecond), context.DeadlineExceeded)
	assert.False(t, k.IsRunning())
	assert.ErrorIs(t, k.Start(context.Background()), ErrStillStopping)

	close(sim.unblock)
	require.Eventually(t, func() bool {
		return !errors.Is(k.Start(context.Background()), ErrStillStopping)
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, k.IsRunning())
	require.NoError(t, k.Stop())
}
