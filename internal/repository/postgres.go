package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

const pingTimeout = 5 * time.Second

// PostgresRepository is the shared base for table readers. Every statement
// runs under queryTimeout, whatever deadline the caller's context carries.
type PostgresRepository struct {
	db           *sqlx.DB
	queryTimeout time.Duration
	logger       zerolog.Logger
}

func NewPostgresRepository(db *sqlx.DB, queryTimeout time.Duration, logger zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:           db,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// withTimeout bounds ctx by d. A zero or negative d leaves ctx as is.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

func (r *PostgresRepository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.queryTimeout)
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, pingTimeout)
	defer cancel()

	if err := r.db.PingContext(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("Database ping failed")
		return err
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
