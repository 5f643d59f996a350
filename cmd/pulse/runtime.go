package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"campuspulse/internal/adapters/notify"
	"campuspulse/internal/adapters/perf"
	"campuspulse/internal/adapters/storage"
	"campuspulse/internal/application/orchestrators"
	"campuspulse/internal/application/session"
	"campuspulse/internal/application/store"
	"campuspulse/internal/config"
	"campuspulse/internal/domain/seed"
)

// runtime is one "tab": a store over the shared durable backend plus a
// private session.
type runtime struct {
	origin    string
	store     *store.Store
	session   *session.Holder
	collector *perf.Collector
	openErr   error
	closers   []func() error
}

// openRuntime wires the configured backend. A store whose stored data is
// corrupt is still returned together with the error, so reset can repair it.
func openRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	rt := &runtime{
		origin:    uuid.NewString(),
		collector: perf.NewCollector(cfg.Perf.RingSize),
	}
	durable, remote, err := rt.openBackend(ctx, cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}

	bus := notify.NewBus()
	rt.store = store.New(store.Deps{
		Durable: durable,
		Bus:     bus,
		Remote:  remote,
		Seed:    seed.Data,
		Now:     time.Now,
		Origin:  rt.origin,
	})
	rt.closers = append(rt.closers, rt.store.Close)
	rt.session = session.New(session.Deps{
		Session:    storage.NewMemoryKV(),
		Bus:        bus,
		Clubs:      rt.store,
		GenerateID: uuid.NewString,
	})

	if err := rt.store.Open(ctx); err != nil {
		if errors.Is(err, store.ErrCorruptData) {
			rt.openErr = err
			return rt, err
		}
		rt.Close()
		return nil, err
	}
	slog.Debug("pulse_event", "event", "runtime_opened", "backend", cfg.Storage.Backend, "origin", rt.origin)
	return rt, nil
}

func (rt *runtime) openBackend(ctx context.Context, cfg *config.Config) (storage.KV, notify.Channel, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := storage.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		timed := storage.NewTimedDB(db, rt.collector, cfg.Perf.SlowQueryMs)
		rt.closers = append(rt.closers, timed.Close)
		if err := storage.InitDB(ctx, timed); err != nil {
			return nil, nil, err
		}
		kv := storage.NewSQLiteKV(timed, rt.origin)
		poller := notify.NewSQLitePoller(kv, rt.origin, cfg.Storage.PollInterval, storage.ClubsKey, storage.EventsKey)
		if err := poller.Start(ctx); err != nil {
			return nil, nil, fmt.Errorf("start poller: %w", err)
		}
		rt.closers = append(rt.closers, poller.Close)
		return kv, poller, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		rt.closers = append(rt.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("ping redis %s: %w: %w", cfg.Storage.Redis.Addr, storage.ErrUnavailable, err)
		}
		ch := notify.NewRedisChannel(client, cfg.Storage.Redis.Channel, rt.origin)
		if err := ch.Start(ctx); err != nil {
			return nil, nil, err
		}
		rt.closers = append(rt.closers, ch.Close)
		return storage.NewRedisKV(client), ch, nil

	default:
		return storage.NewMemoryKV(), nil, nil
	}
}

// clubDeps returns the dependencies shared by club mutations.
func (rt *runtime) clubDeps() orchestrators.ClubMutationDeps {
	return orchestrators.ClubMutationDeps{
		Store:      rt.store,
		Session:    rt.session,
		GenerateID: uuid.NewString,
	}
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() error {
	var errs []error
	for _, closeFn := range slices.Backward(rt.closers) {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
