// Package database provides PostgreSQL connection management using pgx.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gieo-gita/summit-registration/internal/config"
)

// NewPool creates and validates a pgxpool connection pool.
// It retries up to 5 times to accommodate containers starting up.
func NewPool(ctx context.Context, cfg config.Database) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	// Sensible pool defaults for a small service.
	poolCfg.MaxConns = 20
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			pingErr := pool.Ping(ctx)
			if pingErr == nil {
				return pool, nil
			}
			pool.Close()
			err = fmt.Errorf("ping: %w", pingErr)
		}
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connect to postgres: %w", err)
}

// LazyPool defers pool construction until first use and guarantees the open
// function runs at most once, even when concurrent requests race the first
// Get. Every caller observes the same pool (or the same error). There is no
// teardown hook: the process owns the pool for its lifetime and main closes
// it on shutdown.
type LazyPool struct {
	open func(context.Context) (*pgxpool.Pool, error)
	once sync.Once
	pool *pgxpool.Pool
	err  error
}

// NewLazyPool wraps an open function, typically NewPool with config applied.
func NewLazyPool(open func(context.Context) (*pgxpool.Pool, error)) *LazyPool {
	return &LazyPool{open: open}
}

// Get returns the shared pool, opening it on first call. The context of the
// winning caller drives the open; later callers just receive the result.
func (l *LazyPool) Get(ctx context.Context) (*pgxpool.Pool, error) {
	l.once.Do(func() {
		l.pool, l.err = l.open(ctx)
	})
	return l.pool, l.err
}
