package vmnet

import "sync"

// notifier coalesces the framework's packets-available callbacks into a
// generation counter consumers can block on. Any number of callback firings
// between two waits wake the next waiter exactly once.
type notifier struct {
	mu     sync.Mutex
	cond   *sync.Cond
	gen    uint64
	closed bool
}

func newNotifier() *notifier {
	n := &notifier{}
	n.cond = sync.NewCond(&n.mu)
	return n
}

// signal advances the generation and wakes every waiter. Called from the
// framework's event callback.
func (n *notifier) signal() {
	n.mu.Lock()
	n.gen++
	n.mu.Unlock()
	n.cond.Broadcast()
}

// wait blocks until the generation advances past last and returns the
// generation observed. It returns ErrStopped once the notifier is closed.
func (n *notifier) wait(last uint64) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for n.gen <= last && !n.closed {
		n.cond.Wait()
	}
	if n.closed {
		return n.gen, ErrStopped
	}
	return n.gen, nil
}

func (n *notifier) generation() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.gen
}

// close wakes all waiters with ErrStopped. Idempotent.
func (n *notifier) close() {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()
	n.cond.Broadcast()
}
