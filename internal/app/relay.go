package app

import (
	"sync"

	tea "charm.land/bubbletea/v2"
)

// relay forwards messages from background goroutines to the program in
// the order they were sent. Send never blocks, so a session observer can
// publish events while the program is busy rendering.
type relay struct {
	mu     sync.Mutex
	queue  []tea.Msg
	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newRelay() *relay {
	return &relay{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Send queues msg for delivery.
func (r *relay) Send(msg tea.Msg) {
	r.mu.Lock()
	r.queue = append(r.queue, msg)
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// run delivers queued messages through send until close is called.
func (r *relay) run(send func(tea.Msg)) {
	for {
		select {
		case <-r.done:
			return
		case <-r.notify:
		}

		for {
			r.mu.Lock()
			if len(r.queue) == 0 {
				r.mu.Unlock()
				break
			}
			msg := r.queue[0]
			r.queue[0] = nil
			r.queue = r.queue[1:]
			r.mu.Unlock()

			send(msg)
		}
	}
}

func (r *relay) close() {
	r.once.Do(func() { close(r.done) })
}
