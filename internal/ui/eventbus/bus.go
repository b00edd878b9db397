// Package eventbus fans coordinator events out to subscribers.
package eventbus

import (
	"context"
	"sync"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/logging"
)

const defaultDepth = 256

// Bus is a port.EventSink that copies every event to all subscribers.
// Publish never blocks. When a subscriber's buffer is full, surface
// created and closed events wait in an overflow queue; anything else is
// dropped for that subscriber.
type Bus struct {
	mu    sync.Mutex
	subs  map[*subscriber]struct{}
	ctx   context.Context
	depth int
}

type subscriber struct {
	out  chan port.Event
	wake chan struct{}
	done chan struct{}
	quit sync.WaitGroup

	mu       sync.Mutex
	overflow []port.Event
}

// New constructs a Bus. depth is the per-subscriber buffer size.
func New(ctx context.Context, depth int) *Bus {
	if depth <= 0 {
		depth = defaultDepth
	}
	return &Bus{
		subs:  make(map[*subscriber]struct{}),
		ctx:   logging.WithComponent(ctx, "eventbus"),
		depth: depth,
	}
}

// Subscribe registers a subscriber and returns its channel and a cancel
// func. The channel is closed by cancel.
func (b *Bus) Subscribe() (<-chan port.Event, func()) {
	sub := &subscriber{
		out:  make(chan port.Event, b.depth),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	sub.quit.Add(1)
	go sub.drain()

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	count := len(b.subs)
	b.mu.Unlock()
	logging.FromContext(b.ctx).Debug().Int("subs", count).Msg("subscribe")

	var once sync.Once
	return sub.out, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, sub)
			b.mu.Unlock()
			close(sub.done)
			sub.quit.Wait()
			close(sub.out)
			logging.FromContext(b.ctx).Debug().Msg("unsubscribe")
		})
	}
}

// Publish implements port.EventSink.
func (b *Bus) Publish(ev port.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	dropped, queued := 0, 0
	for sub := range b.subs {
		switch sub.offer(ev) {
		case offerDropped:
			dropped++
		case offerQueued:
			queued++
		}
	}
	if dropped > 0 {
		logging.FromContext(b.ctx).Warn().
			Str("event", ev.EventType()).
			Int("count", dropped).
			Msg("subscriber buffer full, event dropped")
	}
	if queued > 0 {
		logging.FromContext(b.ctx).Debug().
			Str("event", ev.EventType()).
			Int("count", queued).
			Msg("subscriber buffer full, event queued")
	}
}

type offerResult int

const (
	offerSent offerResult = iota
	offerQueued
	offerDropped
)

// offer delivers ev without blocking. Once something sits in the overflow
// queue every later event goes behind it, so delivery order is kept.
func (s *subscriber) offer(ev port.Event) offerResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.overflow) == 0 {
		select {
		case s.out <- ev:
			return offerSent
		default:
		}
	}
	if !mustDeliver(ev) {
		return offerDropped
	}
	s.overflow = append(s.overflow, ev)
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return offerQueued
}

// drain moves overflow into out as the consumer catches up. The head is
// only removed after it was sent so offer keeps queueing behind it.
func (s *subscriber) drain() {
	defer s.quit.Done()
	for {
		select {
		case <-s.wake:
		case <-s.done:
			return
		}
		for {
			s.mu.Lock()
			if len(s.overflow) == 0 {
				s.mu.Unlock()
				break
			}
			head := s.overflow[0]
			s.mu.Unlock()

			select {
			case s.out <- head:
			case <-s.done:
				return
			}

			s.mu.Lock()
			s.overflow[0] = nil
			s.overflow = s.overflow[1:]
			s.mu.Unlock()
		}
	}
}

// mustDeliver reports whether losing ev would leave a consumer with a
// wrong surface set.
func mustDeliver(ev port.Event) bool {
	switch ev.(type) {
	case port.SurfaceCreated, port.SurfaceClosed:
		return true
	}
	return false
}

var _ port.EventSink = (*Bus)(nil)
