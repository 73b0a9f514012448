// Package timer provides the wall-clock countdown and single-shot deadline
// used by rounds and the inter-round breather. Every timer runs on an
// injected clockwork.Clock so tests can drive time with a fake clock.
package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// DefaultInterval is the tick period of a Countdown.
	DefaultInterval = 100 * time.Millisecond

	// DefaultGrace is how long after the nominal duration the safety
	// deadline fires.
	DefaultGrace = 500 * time.Millisecond
)

// Countdown ticks at a fixed interval and fires a deadline once when the
// duration has elapsed. Remaining time is always computed from the clock
// reading taken at Start, never from the number of ticks received. A
// second safety deadline at duration+grace covers suppressed ticks;
// whichever fires first wins and the other is a no-op.
type Countdown struct {
	clock    clockwork.Clock
	interval time.Duration
	grace    time.Duration

	mu       sync.Mutex
	gen      uint64
	active   bool
	start    time.Time
	duration time.Duration
	stop     chan struct{}
}

// CountdownOption configures a Countdown.
type CountdownOption func(*Countdown)

// WithInterval sets the tick period.
func WithInterval(d time.Duration) CountdownOption {
	return func(c *Countdown) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithGrace sets the delay of the safety deadline past the duration.
func WithGrace(d time.Duration) CountdownOption {
	return func(c *Countdown) {
		if d >= 0 {
			c.grace = d
		}
	}
}

// NewCountdown returns an idle countdown on clock.
func NewCountdown(clock clockwork.Clock, opts ...CountdownOption) *Countdown {
	c := &Countdown{
		clock:    clock,
		interval: DefaultInterval,
		grace:    DefaultGrace,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a countdown of d. onTick receives the remaining time on
// every tick; onDeadline is called at most once. Either callback may be
// nil. Starting an active countdown cancels the previous run first.
// Callbacks run on the countdown's goroutine, never under its lock.
func (c *Countdown) Start(d time.Duration, onTick func(remaining time.Duration), onDeadline func()) {
	c.mu.Lock()
	if c.active {
		close(c.stop)
	}
	c.gen++
	gen := c.gen
	c.active = true
	c.start = c.clock.Now()
	c.duration = d
	c.stop = make(chan struct{})
	stop := c.stop

	// Created before returning so a fake clock sees both waiters.
	ticker := c.clock.NewTicker(c.interval)
	safety := c.clock.NewTimer(d + c.grace)
	c.mu.Unlock()

	go c.run(gen, stop, ticker, safety, onTick, onDeadline)
}

func (c *Countdown) run(gen uint64, stop <-chan struct{}, ticker clockwork.Ticker, safety clockwork.Timer,
	onTick func(time.Duration), onDeadline func()) {
	defer ticker.Stop()
	defer stopAndDrainTimer(safety)

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			remaining, ok := c.remaining(gen)
			if !ok {
				return
			}
			if remaining <= 0 {
				c.fire(gen, onDeadline)
				return
			}
			if onTick != nil {
				onTick(remaining)
			}
		case <-safety.Chan():
			c.fire(gen, onDeadline)
			return
		}
	}
}

func (c *Countdown) remaining(gen uint64) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active || c.gen != gen {
		return 0, false
	}
	return c.duration - c.clock.Since(c.start), true
}

// fire runs onDeadline if gen is still the active run.
func (c *Countdown) fire(gen uint64, onDeadline func()) {
	c.mu.Lock()
	if !c.active || c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.active = false
	c.mu.Unlock()

	if onDeadline != nil {
		onDeadline()
	}
}

// Cancel stops the countdown. Pending callbacks become no-ops.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	c.active = false
	c.gen++
	close(c.stop)
}

// Remaining returns the time left, or 0 when idle.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return 0
	}
	return max(c.duration-c.clock.Since(c.start), 0)
}

// Active reports whether the countdown is running.
func (c *Countdown) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// stopAndDrainTimer stops a timer and drains its channel if it already
// fired.
func stopAndDrainTimer(t clockwork.Timer) {
	if !t.Stop() {
		select {
		case <-t.Chan():
		default:
		}
	}
}
