package tasks

import "sync"

// StatusCell is the single shared download status slot.
//
// Every [StatusCell.Begin] or [StatusCell.Clear] starts a new generation. A worker publishes
// with the token it got from Begin, so writes from a superseded or cleared download are dropped.
type StatusCell struct {
	mu   sync.Mutex
	text string
	set  bool
	gen  uint64
}

// Begin sets text and returns the token for follow-up writes.
func (c *StatusCell) Begin(text string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.text, c.set = text, true
	return c.gen
}

// Publish overwrites the slot if token is still current and reports whether it did.
func (c *StatusCell) Publish(token uint64, text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.gen {
		return false
	}
	c.text, c.set = text, true
	return true
}

// Clear empties the slot and invalidates outstanding tokens.
func (c *StatusCell) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.text, c.set = "", false
}

// Get returns the current text and whether the slot is set.
func (c *StatusCell) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, c.set
}
