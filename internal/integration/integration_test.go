// Package integration exercises the rules, simulator and keeper packages
// together against the in-memory pointer.
package integration

import (
	"context"
	"os/signal"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/keep-active/internal/config"
	"github.com/stigoleg/keep-active/internal/delay"
	"github.com/stigoleg/keep-active/internal/keepalive"
	"github.com/stigoleg/keep-active/internal/platform"
	"github.com/stigoleg/keep-active/internal/rules"
	"github.com/stigoleg/keep-active/internal/simulator"
)

const allDay = `
# every day, all day
Monday;0:00;23:59
Tuesday;0:00;23:59
Wednesday;0:00;23:59
Thursday;0:00;23:59
Friday;0:00;23:59
Saturday;0:00;23:59
Sunday;0:00;23:59
`

const fastSettings = `
idle_poll_delay: 5ms
min_move_delay: 1ms
max_move_delay: 5ms
max_step: 4
direction_change_chance: 0.2
`

type harness struct {
	fake   *platform.Fake
	keeper *keepalive.Keeper
}

func newHarness(t *testing.T, rulesText string, idle time.Duration) harness {
	t.Helper()

	rs, err := rules.Parse(strings.NewReader(rulesText))
	require.NoError(t, err)

	settings, err := config.DecodeSettings(strings.NewReader(fastSettings))
	require.NoError(t, err)

	delays, err := delay.New(settings.DelayConfig(), nil)
	require.NoError(t, err)

	fake := platform.NewFake(200, 100, platform.Point{X: 100, Y: 50})
	sim, err := simulator.New(rs, delays, fake, fake, settings.SimulatorConfig(idle))
	require.NoError(t, err)

	return harness{fake: fake, keeper: keepalive.New(sim)}
}

func runInBackground(ctx context.Context, k *keepalive.Keeper) <-chan error {
	errc := make(chan error, 1)
	go func() { errc <- k.Run(ctx) }()
	return errc
}

func waitForRun(t *testing.T, errc <-chan error) {
	t.Helper()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("keeper did not stop")
	}
}

func TestKeeperJigglesWithinScreen(t *testing.T) {
	h := newHarness(t, allDay, 0)

	ctx, cancel := context.WithCancel(context.Background())
	errc := runInBackground(ctx, h.keeper)

	require.Eventually(t, func() bool {
		return h.keeper.Status().Moves >= 20
	}, 5*time.Second, 5*time.Millisecond)

	cancel()
	waitForRun(t, errc)
	assert.False(t, h.keeper.IsRunning())

	prev := platform.Point{X: 100, Y: 50}
	for _, p := range h.fake.Moves() {
		assert.True(t, p.X >= 0 && p.X <= 200, "x out of bounds: %v", p)
		assert.True(t, p.Y >= 0 && p.Y <= 100, "y out of bounds: %v", p)
		dx, dy := p.X-prev.X, p.Y-prev.Y
		assert.LessOrEqual(t, dx*dx+dy*dy, 2*4*4, "step too large from %v to %v", prev, p)
		prev = p
	}

	st := h.keeper.Status()
	assert.Equal(t, simulator.StateActivelyJiggling, st.State)
	assert.Equal(t, keepalive.SimulationHealthOK, st.Health)
	assert.Empty(t, st.LastError)
}

func TestKeeperStaysStillOutsideWindows(t *testing.T) {
	// A window that is never open today.
	today := time.Now().Weekday()
	other := (today + 3) % 7
	h := newHarness(t, other.String()+";0:00;23:59\n", 0)

	ctx, cancel := context.WithCancel(context.Background())
	errc := runInBackground(ctx, h.keeper)

	require.Eventually(t, func() bool {
		return h.keeper.Status().Ticks >= 5
	}, 5*time.Second, 5*time.Millisecond)

	cancel()
	waitForRun(t, errc)

	assert.Empty(t, h.fake.Moves())
	assert.Equal(t, simulator.StateOutOfWindow, h.keeper.Status().State)
}

func TestKeeperRecoversFromPointerFailure(t *testing.T) {
	h := newHarness(t, allDay, 0)
	h.fake.FailResolution(assert.AnError)

	ctx, cancel := context.WithCancel(context.Background())
	errc := runInBackground(ctx, h.keeper)

	require.Eventually(t, func() bool {
		return h.keeper.Status().Health == keepalive.SimulationHealthFailed
	}, 5*time.Second, 5*time.Millisecond)
	assert.Contains(t, h.keeper.Status().LastError, "read resolution")

	h.fake.FailResolution(nil)
	require.Eventually(t, func() bool {
		st := h.keeper.Status()
		return st.Health == keepalive.SimulationHealthOK && st.Moves > 0
	}, 5*time.Second, 5*time.Millisecond)

	cancel()
	waitForRun(t, errc)
}

func TestCleanupStopsKeeper(t *testing.T) {
	h := newHarness(t, allDay, time.Hour)
	cleanup := keepalive.NewCleanupManager(time.Second, nil)
	cleanup.RegisterFunc("keeper", h.keeper.Stop)

	errc := runInBackground(context.Background(), h.keeper)
	require.Eventually(t, func() bool {
		return h.keeper.Status().Ticks > 0
	}, 5*time.Second, time.Millisecond)

	assert.Empty(t, cleanup.Execute())
	waitForRun(t, errc)
	assert.Empty(t, h.fake.Moves(), "idle threshold of an hour should never be reached")
	assert.Equal(t, simulator.StateWaitingIdleThreshold, h.keeper.Status().State)
}

func TestInterruptStopsKeeper(t *testing.T) {
	if !canSignalSelf {
		t.Skip("signals cannot be sent to self on this platform")
	}

	h := newHarness(t, allDay, 0)
	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals()...)
	defer stop()

	errc := runInBackground(ctx, h.keeper)
	require.Eventually(t, func() bool {
		return h.keeper.Status().Ticks > 0
	}, 5*time.Second, 5*time.Millisecond)

	require.NoError(t, sendInterrupt())
	waitForRun(t, errc)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
