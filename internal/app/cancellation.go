package app

import (
	"sync"
	"sync/atomic"
)

type cancelEntry struct {
	flag    *atomic.Bool
	running bool
}

// cancellations tracks the cooperative stop flag of every reserved or running
// transfer. An id maps to at most one flag at a time.
type cancellations struct {
	mu      sync.Mutex
	entries map[string]*cancelEntry
}

func newCancellations() *cancellations {
	return &cancellations{entries: make(map[string]*cancelEntry)}
}

// reserve registers id ahead of its run so that cancellation can be requested
// before the transfer starts. It reports false if id is already known.
func (c *cancellations) reserve(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; ok {
		return false
	}
	c.entries[id] = &cancelEntry{flag: &atomic.Bool{}}
	return true
}

// claim returns the flag for a transfer about to run, taking over a
// reservation if there is one. It reports false if id is already running.
func (c *cancellations) claim(id string) (*atomic.Bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if ok && e.running {
		return nil, false
	}
	if !ok {
		e = &cancelEntry{flag: &atomic.Bool{}}
		c.entries[id] = e
	}
	e.running = true
	return e.flag, true
}

// release drops id only while it still maps to flag.
func (c *cancellations) release(id string, flag *atomic.Bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok && e.flag == flag {
		delete(c.entries, id)
	}
}

// request raises the flag for id and reports whether the transfer is reserved
// or running.
func (c *cancellations) request(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return false
	}
	e.flag.Store(true)
	return true
}
