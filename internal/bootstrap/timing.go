// Package bootstrap assembles and runs the browser session: profile lock,
// crash markers, stores, engine, tab manager and the terminal shell.
package bootstrap

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/arkium/internal/logging"
)

// StartupTimer records how long each startup phase took.
type StartupTimer struct {
	mu     sync.Mutex
	start  time.Time
	last   time.Time
	phases map[string]time.Duration
	order  []string
}

// NewStartupTimer starts a timer at the current instant.
func NewStartupTimer() *StartupTimer {
	now := time.Now()
	return &StartupTimer{start: now, last: now, phases: make(map[string]time.Duration)}
}

// Mark closes the phase that began at the previous mark.
func (t *StartupTimer) Mark(phase string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if _, seen := t.phases[phase]; !seen {
		t.order = append(t.order, phase)
	}
	t.phases[phase] = now.Sub(t.last)
	t.last = now
}

// Total is the time since the timer was created.
func (t *StartupTimer) Total() time.Duration {
	return time.Since(t.start)
}

// Log writes one debug line with every phase in mark order.
func (t *StartupTimer) Log(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	event := logging.FromContext(ctx).Debug().Dur("total", time.Since(t.start))
	for _, phase := range t.order {
		event = event.Dur(phase, t.phases[phase])
	}
	event.Msg("startup timing")
}
