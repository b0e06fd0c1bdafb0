package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spounge-ai/playerkits/pkg/postgres"
)

const serializationFailure = "40001"

// TransactionManager provides a generic way to execute functions within a database transaction.
type TransactionManager[T any] struct {
	logger     *slog.Logger
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// NewTransactionManager creates a new TransactionManager.
func NewTransactionManager[T any](logger *slog.Logger) *TransactionManager[T] {
	return &TransactionManager[T]{
		logger:     logger,
		maxRetries: 5,
		baseDelay:  10 * time.Millisecond,
		maxDelay:   250 * time.Millisecond,
	}
}

// ExecuteInTransaction executes the given function within a serializable transaction,
// retrying with exponential backoff on serialization failures.
func (tm *TransactionManager[T]) ExecuteInTransaction(
	ctx context.Context,
	db postgres.DB,
	fn func(context.Context, pgx.Tx) (T, error),
) (T, error) {
	var zero T
	var err error

	for i := 0; i < tm.maxRetries; i++ {
		tx, txErr := db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
		if txErr != nil {
			return zero, fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		var result T
		result, err = fn(ctx, tx)
		if err == nil {
			commitErr := tx.Commit(ctx)
			if commitErr == nil {
				return result, nil
			}
			if !isSerializationFailure(commitErr) {
				_ = tx.Rollback(ctx)
				return zero, fmt.Errorf("failed to commit transaction: %w", commitErr)
			}
			err = commitErr
			tm.logger.WarnContext(ctx, "serialization error on commit, retrying", "attempt", i+1, "max_attempts", tm.maxRetries)
		}

		_ = tx.Rollback(ctx)

		if !isSerializationFailure(err) {
			return zero, fmt.Errorf("transaction failed: %w", err)
		}

		tm.logger.WarnContext(ctx, "serialization error detected, retrying", "attempt", i+1, "max_attempts", tm.maxRetries)
		delay := tm.baseDelay * time.Duration(1<<uint(i))
		if delay > tm.maxDelay {
			delay = tm.maxDelay
		}
		jitter := time.Duration(rand.Int63n(int64(delay/10) + 1))

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay + jitter):
		}
	}

	return zero, fmt.Errorf("transaction failed after %d retries: %w", tm.maxRetries, err)
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == serializationFailure
}
