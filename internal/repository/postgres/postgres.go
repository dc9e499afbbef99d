package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// standalone or inside WithinTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db           *sql.DB
	maxAttempts  int
	retryBackoff time.Duration
	repository.Repositories
}

type StoreOption func(*Store)

// WithRetry sets how many attempts a serializable transaction gets and the
// base backoff between them.
func WithRetry(maxAttempts int, backoff time.Duration) StoreOption {
	return func(s *Store) {
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
		s.retryBackoff = backoff
	}
}

func NewStore(db *sql.DB, opts ...StoreOption) *Store {
	s := &Store{
		db:           db,
		maxAttempts:  3,
		retryBackoff: 50 * time.Millisecond,
		Repositories: newRepositories(db),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newRepositories(db DBTX) repository.Repositories {
	return repository.Repositories{
		Products:    NewProductRepository(db),
		Categories:  NewCategoryRepository(db),
		Clients:     NewClientRepository(db),
		Allocations: NewAllocationRepository(db),
		Quotes:      NewQuoteRepository(db),
		Orders:      NewOrderRepository(db),
		Payments:    NewPaymentRepository(db),
		RBAC:        NewRBACRepository(db),
		Dashboard:   NewDashboardRepository(db),
	}
}

// WithinTx implements repository.Transactor. Serialization failures and
// deadlocks are retried with linear backoff; any other error is returned
// after rollback.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.runTx(ctx, fn)
		if err == nil || domain.KindOf(err) != domain.KindStorageUnavailable {
			return err
		}
		if attempt == s.maxAttempts {
			break
		}
		logger.WarnContext(ctx, "Retrying transaction", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return domain.WrapError(domain.KindStorageTimeout, "waiting to retry transaction", ctx.Err())
		case <-time.After(time.Duration(attempt) * s.retryBackoff):
		}
	}
	return err
}

func (s *Store) runTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return mapError("begin transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			rollback(tx)
			panic(p)
		}
		if err != nil {
			rollback(tx)
		}
	}()

	if err = fn(ctx, newRepositories(tx)); err != nil {
		return mapError("transaction", err)
	}
	if err = tx.Commit(); err != nil {
		return mapError("commit transaction", err)
	}
	return nil
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.Error("Failed to rollback transaction", "error", err)
	}
}
