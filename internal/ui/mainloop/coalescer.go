package mainloop

import "sync"

// Coalescer merges requests per key. A key is pending from its first
// request until its task starts; requests made meanwhile replace the task
// instead of scheduling another run.
type Coalescer[K comparable] struct {
	schedule func(func())

	mu     sync.Mutex
	latest map[K]func()
	closed bool
}

// NewCoalescer runs tasks through schedule. It panics when schedule is nil.
func NewCoalescer[K comparable](schedule func(func())) *Coalescer[K] {
	if schedule == nil {
		panic("mainloop: NewCoalescer needs a schedule func")
	}
	return &Coalescer[K]{schedule: schedule, latest: make(map[K]func())}
}

// Post records fn as the task for key and schedules a run unless one is
// already pending.
func (c *Coalescer[K]) Post(key K, fn func()) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	_, pending := c.latest[key]
	c.latest[key] = fn
	c.mu.Unlock()

	if !pending {
		c.schedule(func() { c.run(key) })
	}
}

func (c *Coalescer[K]) run(key K) {
	c.mu.Lock()
	fn, ok := c.latest[key]
	delete(c.latest, key)
	closed := c.closed
	c.mu.Unlock()

	if ok && !closed {
		fn()
	}
}

// Pending reports whether key has a task waiting to start.
func (c *Coalescer[K]) Pending(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.latest[key]
	return ok
}

// Destroy drops waiting tasks and ignores later posts.
func (c *Coalescer[K]) Destroy() {
	c.mu.Lock()
	c.closed = true
	clear(c.latest)
	c.mu.Unlock()
}
