package kvstore

import (
	"context"
	"fmt"
	"io"

	"github.com/angelmondragon/marketplace-cart/pkg/config"
	"github.com/angelmondragon/marketplace-cart/pkg/db"
	"github.com/angelmondragon/marketplace-cart/pkg/logger"
	"github.com/angelmondragon/marketplace-cart/pkg/migrate"
	pkgredis "github.com/angelmondragon/marketplace-cart/pkg/redis"
	"go.uber.org/multierr"
)

// Resources is an opened backend together with everything it owns.
type Resources struct {
	Backend Backend
	Kind    string
	closers []io.Closer
}

// Ping reports backend reachability when the backend supports it.
func (r *Resources) Ping(ctx context.Context) error {
	if p, ok := r.Backend.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases owned resources in reverse order of acquisition.
func (r *Resources) Close() error {
	var err error
	for i := len(r.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, r.closers[i].Close())
	}
	r.closers = nil
	return err
}

// Open builds the backend selected by cfg.Storage.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Resources, error) {
	kind := cfg.Storage.Kind()
	res := &Resources{Kind: kind}

	switch kind {
	case config.BackendMemory:
		res.Backend = NewMemory()

	case config.BackendRedis:
		client, err := pkgredis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		res.closers = append(res.closers, client)
		backend, err := NewRedis(client)
		if err != nil {
			return nil, multierr.Append(err, res.Close())
		}
		res.Backend = backend

	case config.BackendSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		res.closers = append(res.closers, client)
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			return nil, multierr.Append(fmt.Errorf("run migrations: %w", err), res.Close())
		}
		backend, err := NewSQL(client.DB())
		if err != nil {
			return nil, multierr.Append(err, res.Close())
		}
		res.Backend = backend

	case config.BackendBadger:
		backend, err := OpenBadger(cfg.Storage.BadgerPath)
		if err != nil {
			return nil, err
		}
		res.closers = append(res.closers, backend)
		res.Backend = backend

	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "backend", kind), "storage backend ready")
	}
	return res, nil
}
