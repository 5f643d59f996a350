// Package notify carries storage change signals between the views of one
// process and between processes sharing a durable store.
package notify

import (
	"context"
	"slices"
	"sync"
)

// StorageChangeEvent names the in-process change signal.
const StorageChangeEvent = "storageChange"

// Change announces that the value under Key was rewritten by Origin.
type Change struct {
	Key    string `json:"key"`
	Origin string `json:"origin,omitempty"`
}

// Channel is a pub/sub medium for change signals.
type Channel interface {
	// Publish announces c to subscribers.
	Publish(ctx context.Context, c Change) error
	// Subscribe registers fn; the returned func removes it and is safe to call twice.
	Subscribe(fn func(Change)) (cancel func())
}

type handler struct {
	fn func(Change)
}

// subscribers is the handler list shared by every Channel implementation.
// Handlers run outside the lock so they may publish or unsubscribe.
type subscribers struct {
	mu       sync.Mutex
	handlers []*handler
}

func (s *subscribers) add(fn func(Change)) func() {
	h := &handler{fn: fn}
	s.mu.Lock()
	s.handlers = append(s.handlers, h)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.handlers = slices.DeleteFunc(s.handlers, func(x *handler) bool { return x == h })
			s.mu.Unlock()
		})
	}
}

func (s *subscribers) dispatch(c Change) {
	s.mu.Lock()
	hs := slices.Clone(s.handlers)
	s.mu.Unlock()
	for _, h := range hs {
		h.fn(c)
	}
}

func (s *subscribers) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}
