package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

type Settings struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// ConnectTimeout bounds the total time spent retrying the initial ping.
	ConnectTimeout time.Duration
}

func DefaultSettings(dsn string) Settings {
	return Settings{
		DSN:             dsn,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnectTimeout:  time.Minute,
	}
}

type pinger interface {
	PingContext(ctx context.Context) error
}

// NewDB opens a lib/pq connection pool and waits for the server to answer a
// ping, backing off exponentially between attempts.
func NewDB(ctx context.Context, settings Settings) (*sql.DB, error) {
	if settings.DSN == "" {
		return nil, fmt.Errorf("database dsn is empty")
	}

	db, err := sql.Open("postgres", settings.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database connection: %w", err)
	}

	if settings.MaxOpenConns > 0 {
		db.SetMaxOpenConns(settings.MaxOpenConns)
	}
	if settings.MaxIdleConns > 0 {
		db.SetMaxIdleConns(settings.MaxIdleConns)
	}
	if settings.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(settings.ConnMaxLifetime)
	}

	if err := ping(ctx, db, newBackOff(settings.ConnectTimeout)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	zerolog.Ctx(ctx).Info().Msg("connected to postgres")
	return db, nil
}

func newBackOff(maxElapsed time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = maxElapsed
	return b
}

func ping(ctx context.Context, db pinger, b backoff.BackOff) error {
	attempt := 0
	operation := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	}
	notify := func(err error, next time.Duration) {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("retry_in", next).
			Msg("postgres ping failed")
	}
	return backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify)
}
