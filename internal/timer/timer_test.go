package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wait = time.Second

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(wait):
		t.Fatal("timed out waiting for callback")
		var zero T
		return zero
	}
}

func settle() { time.Sleep(50 * time.Millisecond) }

func TestCountdown_TicksReportRemainingFromClock(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := NewCountdown(fc, WithInterval(100*time.Millisecond))
	ticks := make(chan time.Duration, 10)

	c.Start(time.Second, func(r time.Duration) { ticks <- r }, nil)
	defer c.Cancel()

	fc.Advance(100 * time.Millisecond)
	assert.Equal(t, 900*time.Millisecond, recv(t, ticks))

	fc.Advance(350 * time.Millisecond)
	assert.Equal(t, 550*time.Millisecond, recv(t, ticks))
	assert.Equal(t, 550*time.Millisecond, c.Remaining())
}

func TestCountdown_DeadlineFiresOnce(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := NewCountdown(fc, WithInterval(100*time.Millisecond), WithGrace(500*time.Millisecond))
	var fired atomic.Int32
	done := make(chan struct{}, 2)

	c.Start(time.Second, nil, func() {
		fired.Add(1)
		done <- struct{}{}
	})

	fc.Advance(time.Second)
	recv(t, done)

	// The safety deadline is past too; it must not fire again.
	fc.Advance(time.Second)
	settle()
	assert.Equal(t, int32(1), fired.Load())
	assert.False(t, c.Active())
	assert.Zero(t, c.Remaining())
}

func TestCountdown_SafetyDeadlineWhenTicksStall(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := NewCountdown(fc, WithInterval(time.Hour), WithGrace(200*time.Millisecond))
	done := make(chan struct{}, 1)

	c.Start(time.Second, nil, func() { done <- struct{}{} })

	fc.Advance(time.Second)
	settle()
	select {
	case <-done:
		t.Fatal("deadline fired before the safety timer")
	default:
	}

	fc.Advance(200 * time.Millisecond)
	recv(t, done)
}

func TestCountdown_CancelSuppressesCallbacks(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := NewCountdown(fc)
	var calls atomic.Int32

	c.Start(time.Second, func(time.Duration) { calls.Add(1) }, func() { calls.Add(1) })
	c.Cancel()
	c.Cancel()

	fc.Advance(5 * time.Second)
	settle()
	assert.Zero(t, calls.Load())
	assert.False(t, c.Active())
}

func TestCountdown_RestartSupersedesPreviousRun(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := NewCountdown(fc, WithInterval(time.Hour), WithGrace(0))
	first := make(chan struct{}, 1)
	second := make(chan struct{}, 1)

	c.Start(time.Second, nil, func() { first <- struct{}{} })
	c.Start(3*time.Second, nil, func() { second <- struct{}{} })
	defer c.Cancel()

	fc.Advance(time.Second)
	settle()
	select {
	case <-first:
		t.Fatal("superseded countdown fired")
	default:
	}
	fc.Advance(2 * time.Second)
	recv(t, second)
}

func TestOneShot_FiresAtLimit(t *testing.T) {
	fc := clockwork.NewFakeClock()
	o := NewOneShot(fc)
	done := make(chan struct{}, 1)

	o.Start(2*time.Second, func() { done <- struct{}{} })
	require.True(t, o.Armed())

	fc.Advance(time.Second)
	settle()
	select {
	case <-done:
		t.Fatal("fired early")
	default:
	}

	fc.Advance(time.Second)
	recv(t, done)
	assert.False(t, o.Armed())
}

func TestOneShot_CancelAndRearm(t *testing.T) {
	fc := clockwork.NewFakeClock()
	o := NewOneShot(fc)
	var stale, fresh atomic.Int32
	done := make(chan struct{}, 1)

	o.Start(time.Second, func() { stale.Add(1) })
	o.Cancel()
	o.Start(time.Second, func() { stale.Add(1) })
	o.Start(2*time.Second, func() {
		fresh.Add(1)
		done <- struct{}{}
	})

	fc.Advance(2 * time.Second)
	recv(t, done)
	settle()
	assert.Zero(t, stale.Load())
	assert.Equal(t, int32(1), fresh.Load())
}
