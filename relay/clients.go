package relay

import (
	"net"
	"sync"
	"time"
)

// clientTable tracks UDP peers by their last datagram. Entries expire after
// the relay's idle timeout; expiry happens lazily during fan-out.
type clientTable struct {
	mu      sync.Mutex
	entries map[string]*client
}

type client struct {
	addr *net.UDPAddr
	seen time.Time
}

func newClientTable() *clientTable {
	return &clientTable{entries: map[string]*client{}}
}

// touch records activity from addr and reports whether it is a new client.
func (t *clientTable) touch(addr *net.UDPAddr, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := addr.String()
	if c, ok := t.entries[key]; ok {
		c.seen = now
		return false
	}
	t.entries[key] = &client{addr: addr, seen: now}
	return true
}

// active returns the addresses seen within idle of now, pruning the rest.
// A zero idle disables expiry.
func (t *clientTable) active(now time.Time, idle time.Duration) []*net.UDPAddr {
	t.mu.Lock()
	defer t.mu.Unlock()
	addrs := make([]*net.UDPAddr, 0, len(t.entries))
	for key, c := range t.entries {
		if idle > 0 && now.Sub(c.seen) > idle {
			delete(t.entries, key)
			continue
		}
		addrs = append(addrs, c.addr)
	}
	return addrs
}

func (t *clientTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
