package notify

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"campuspulse/internal/adapters/storage"
)

// DefaultPollInterval is how often SQLitePoller checks for foreign writes.
const DefaultPollInterval = 500 * time.Millisecond

// RevisionSource reports the last revision and writer of each stored key.
type RevisionSource interface {
	Revisions(ctx context.Context) (map[string]storage.Revision, error)
}

// SQLitePoller is the cross-process channel for SQLite storage. The write
// itself is the signal: the poller watches row revisions and announces keys
// rewritten by another origin, so Publish has nothing to do.
type SQLitePoller struct {
	src      RevisionSource
	origin   string
	interval time.Duration
	keys     []string
	subs     subscribers

	mu   sync.Mutex
	seen map[string]storage.Revision

	stop chan struct{}
	done chan struct{}
}

// Compile-time check that *SQLitePoller satisfies Channel.
var _ Channel = (*SQLitePoller)(nil)

// NewSQLitePoller watches keys for writes not made by origin.
// PRE: origin matches the origin the local SQLiteKV writes with
// POST: poller is idle until Start
func NewSQLitePoller(src RevisionSource, origin string, interval time.Duration, keys ...string) *SQLitePoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &SQLitePoller{
		src:      src,
		origin:   origin,
		interval: interval,
		keys:     keys,
		seen:     make(map[string]storage.Revision),
	}
}

// Start records the current revisions as the baseline and begins polling.
// PRE: Start has not been called
// POST: a background goroutine polls until Close
func (p *SQLitePoller) Start(ctx context.Context) error {
	revs, err := p.src.Revisions(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.seen = revs
	p.mu.Unlock()

	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.loop()
	return nil
}

func (p *SQLitePoller) loop() {
	defer close(p.done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			if err := p.Poll(context.Background()); err != nil {
				slog.Warn("notify_event", "event", "poll_failed", "error", err)
			}
		}
	}
}

// Poll compares revisions once and dispatches a Change per foreign write.
// Own writes advance the baseline silently.
func (p *SQLitePoller) Poll(ctx context.Context) error {
	revs, err := p.src.Revisions(ctx)
	if err != nil {
		return err
	}

	var changes []Change
	p.mu.Lock()
	for key, cur := range revs {
		if len(p.keys) > 0 && !slices.Contains(p.keys, key) {
			continue
		}
		if prev, ok := p.seen[key]; ok && prev == cur {
			continue
		}
		if cur.Origin != p.origin {
			changes = append(changes, Change{Key: key, Origin: cur.Origin})
		}
	}
	for key := range p.seen {
		if _, ok := revs[key]; !ok && (len(p.keys) == 0 || slices.Contains(p.keys, key)) {
			changes = append(changes, Change{Key: key})
		}
	}
	p.seen = revs
	p.mu.Unlock()

	slices.SortFunc(changes, func(a, b Change) int {
		if a.Key < b.Key {
			return -1
		}
		if a.Key > b.Key {
			return 1
		}
		return 0
	})
	for _, c := range changes {
		p.subs.dispatch(c)
	}
	return nil
}

// Publish is a no-op; other processes observe the write through their own pollers.
func (p *SQLitePoller) Publish(context.Context, Change) error {
	return nil
}

// Subscribe registers fn for foreign changes.
func (p *SQLitePoller) Subscribe(fn func(Change)) func() {
	return p.subs.add(fn)
}

// Close stops polling and waits for the loop to exit.
func (p *SQLitePoller) Close() error {
	if p.stop == nil {
		return nil
	}
	select {
	case <-p.stop:
	default:
		close(p.stop)
	}
	<-p.done
	return nil
}
