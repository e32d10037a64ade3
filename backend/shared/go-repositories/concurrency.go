package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

var (
	// ErrUnchanged may be returned by a mutate func to signal that the entity
	// already holds the requested values. WithRetry then skips the write and
	// reports success.
	ErrUnchanged = errors.New("entity unchanged")

	// ErrContention means every attempt lost the row_version race.
	ErrContention = errors.New("row version contention")
)

// Versioned is a pointer to an entity carrying a row_version column.
type Versioned interface {
	comparable
	GetRowVersion() int64
	SetRowVersion(int64)
}

// VersionedUpdate writes entity only if its stored row_version still equals
// expected. It reports zero rows affected otherwise.
type VersionedUpdate[T Versioned] func(ctx context.Context, entity T, expected int64) (pgconn.CommandTag, error)

// Loader returns the current row, or the zero T when there is none.
type Loader[T Versioned] func(ctx context.Context, id uuid.UUID) (T, error)

// WithRetry runs a read-mutate-update loop with optimistic locking. The
// entity handed to mutate is always freshly loaded.
func WithRetry[T Versioned](
	ctx context.Context,
	attempts int,
	id uuid.UUID,
	load Loader[T],
	update VersionedUpdate[T],
	mutate func(T) error,
) error {
	var zero T
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		current, err := load(ctx, id)
		if err != nil {
			return err
		}
		if current == zero {
			return pgx.ErrNoRows
		}

		oldVersion := current.GetRowVersion()
		if err := mutate(current); err != nil {
			if errors.Is(err, ErrUnchanged) {
				return nil
			}
			return err
		}

		tag, err := update(ctx, current, oldVersion)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			current.SetRowVersion(oldVersion + 1)
			return nil
		}
	}
	return fmt.Errorf("update %s after %d attempts: %w", id, attempts, ErrContention)
}

const defaultUpdateAttempts = 3

// versionedRepo carries the by-id read shared by every versioned table.
type versionedRepo[T Versioned] struct {
	db         DB
	selectByID string
	scan       func(pgx.Row) (T, error)
}

func newVersionedRepo[T Versioned](db DB, selectByID string, scan func(pgx.Row) (T, error)) *versionedRepo[T] {
	return &versionedRepo[T]{db: db, selectByID: selectByID, scan: scan}
}

func (b *versionedRepo[T]) getByID(ctx context.Context, id uuid.UUID) (T, error) {
	return b.scan(b.db.QueryRow(ctx, b.selectByID, id))
}

func (b *versionedRepo[T]) updateWithRetry(ctx context.Context, id uuid.UUID, mutate func(T) error, update VersionedUpdate[T]) error {
	return WithRetry(ctx, defaultUpdateAttempts, id, b.getByID, update, mutate)
}
