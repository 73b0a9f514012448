package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// OneShot is a single-shot deadline without ticks, used for per-question
// limits. Cancellation is checked when the timer fires, so a timer that
// was cancelled after being scheduled never calls back.
type OneShot struct {
	clock clockwork.Clock

	mu    sync.Mutex
	gen   uint64
	armed bool
	stop  chan struct{}
}

// NewOneShot returns an idle one-shot timer on clock.
func NewOneShot(clock clockwork.Clock) *OneShot {
	return &OneShot{clock: clock}
}

// Start arms the timer. Re-arming cancels the previous deadline. onFire
// runs on the timer's goroutine.
func (o *OneShot) Start(limit time.Duration, onFire func()) {
	o.mu.Lock()
	o.cancelLocked()
	gen := o.gen
	o.armed = true
	o.stop = make(chan struct{})
	stop := o.stop
	t := o.clock.NewTimer(limit)
	o.mu.Unlock()

	go func() {
		select {
		case <-stop:
			stopAndDrainTimer(t)
		case <-t.Chan():
			o.mu.Lock()
			if !o.armed || o.gen != gen {
				o.mu.Unlock()
				return
			}
			o.armed = false
			o.mu.Unlock()
			onFire()
		}
	}()
}

// Cancel disarms the timer.
func (o *OneShot) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancelLocked()
}

// Armed reports whether a deadline is pending.
func (o *OneShot) Armed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.armed
}

func (o *OneShot) cancelLocked() {
	o.gen++
	if o.armed {
		o.armed = false
		close(o.stop)
	}
}
