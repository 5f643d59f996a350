package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisChannel is the pub/sub channel used for storage changes.
const DefaultRedisChannel = "campus-pulse:storage"

// RedisChannel is the cross-process channel for Redis storage. Publish
// broadcasts over Redis pub/sub; messages from this origin are dropped on receipt.
type RedisChannel struct {
	client  *redis.Client
	channel string
	origin  string
	subs    subscribers

	pubsub *redis.PubSub
	done   chan struct{}
}

// Compile-time check that *RedisChannel satisfies Channel.
var _ Channel = (*RedisChannel)(nil)

// NewRedisChannel creates a channel on the given pub/sub channel name.
func NewRedisChannel(client *redis.Client, channel, origin string) *RedisChannel {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisChannel{client: client, channel: channel, origin: origin}
}

// Start subscribes and begins forwarding foreign changes.
// PRE: Start has not been called
// POST: subscription confirmed by the server, or an error
func (r *RedisChannel) Start(ctx context.Context) error {
	ps := r.client.Subscribe(ctx, r.channel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.pubsub = ps
	r.done = make(chan struct{})
	go func() {
		defer close(r.done)
		for msg := range ps.Channel() {
			c, ok := decodeChange(msg.Payload, r.origin)
			if !ok {
				continue
			}
			r.subs.dispatch(c)
		}
	}()
	return nil
}

// Publish broadcasts c stamped with this origin.
func (r *RedisChannel) Publish(ctx context.Context, c Change) error {
	c.Origin = r.origin
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, payload).Err()
}

// Subscribe registers fn for foreign changes.
func (r *RedisChannel) Subscribe(fn func(Change)) func() {
	return r.subs.add(fn)
}

// Close ends the subscription and waits for the receive loop to exit.
func (r *RedisChannel) Close() error {
	if r.pubsub == nil {
		return nil
	}
	err := r.pubsub.Close()
	<-r.done
	return err
}

// decodeChange parses a pub/sub payload, rejecting malformed messages and echoes of self.
func decodeChange(payload, self string) (Change, bool) {
	var c Change
	if err := json.Unmarshal([]byte(payload), &c); err != nil || c.Key == "" {
		slog.Warn("notify_event", "event", "bad_payload", "payload", payload)
		return Change{}, false
	}
	if c.Origin == self {
		return Change{}, false
	}
	return c, true
}
