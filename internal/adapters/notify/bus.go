package notify

import "context"

// Bus is the in-process channel. Publish delivers synchronously, in
// subscription order, before returning; a write followed by Publish is
// therefore observed by every subscriber before the writer continues.
type Bus struct {
	subs subscribers
}

// Compile-time check that *Bus satisfies Channel.
var _ Channel = (*Bus)(nil)

// NewBus creates an empty in-process bus.
func NewBus() *Bus {
	return &Bus{}
}

// Publish delivers c to every current subscriber.
func (b *Bus) Publish(_ context.Context, c Change) error {
	b.subs.dispatch(c)
	return nil
}

// Subscribe registers fn for every later Publish.
func (b *Bus) Subscribe(fn func(Change)) func() {
	return b.subs.add(fn)
}

// Subscribers returns the number of registered handlers.
func (b *Bus) Subscribers() int {
	return b.subs.len()
}
