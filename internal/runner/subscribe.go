package runner

import (
	"sync"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// subscriber holds a one-slot mailbox. A slow reader only ever sees the
// latest snapshot; older ones are dropped.
type subscriber struct {
	ch     chan tetris.Snapshot
	once   sync.Once
	closed bool
}

func newSubscriber() *subscriber {
	return &subscriber{ch: make(chan tetris.Snapshot, 1)}
}

// send delivers s, replacing an unread snapshot. Caller holds the runner lock.
func (s *subscriber) send(snap tetris.Snapshot) {
	if s.closed {
		return
	}
	select {
	case s.ch <- snap:
		return
	default:
	}
	// Mailbox full: drop the stale snapshot and retry once.
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- snap:
	default:
	}
}

func (s *subscriber) close() {
	s.once.Do(func() {
		s.closed = true
		close(s.ch)
	})
}

// Subscribe returns a channel that receives every published snapshot,
// latest-wins, starting with the current one. The channel is closed when
// the runner stops or cancel is called.
func (r *Runner) Subscribe() (<-chan tetris.Snapshot, func()) {
	s := newSubscriber()

	r.mu.Lock()
	select {
	case <-r.done:
		r.mu.Unlock()
		s.close()
		return s.ch, func() {}
	default:
	}
	s.send(r.snap)
	r.subs[s] = struct{}{}
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.subs[s]; ok {
			delete(r.subs, s)
			s.close()
		}
	}
	return s.ch, cancel
}

func (r *Runner) broadcast(snap tetris.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for s := range r.subs {
		s.send(snap)
	}
}
