package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/plotline/mono-repo/backend/shared/go-models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// versionedRow simulates one stored row_version and lets a test bump it
// behind the loop's back.
type versionedRow struct {
	stored models.Land
	loads  int
	bumps  int
}

func (r *versionedRow) load(ctx context.Context, id uuid.UUID) (*models.Land, error) {
	r.loads++
	if r.stored.ID != id {
		return nil, nil
	}
	cp := r.stored
	return &cp, nil
}

func (r *versionedRow) update(ctx context.Context, l *models.Land, expected int64) (pgconn.CommandTag, error) {
	if r.bumps > 0 {
		r.bumps--
		r.stored.RowVersion++
	}
	if r.stored.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	r.stored = *l
	r.stored.RowVersion = expected + 1
	return pgconn.CommandTag("UPDATE 1"), nil
}

func newVersionedRow() *versionedRow {
	land := models.Land{ID: uuid.New(), Name: "Old"}
	land.RowVersion = 1
	return &versionedRow{stored: land}
}

func rename(name string) func(*models.Land) error {
	return func(l *models.Land) error {
		l.Name = name
		return nil
	}
}

func TestWithRetry_WritesAndBumpsVersion(t *testing.T) {
	row := newVersionedRow()
	err := WithRetry(context.Background(), 3, row.stored.ID, row.load, row.update, rename("New"))
	require.NoError(t, err)
	assert.Equal(t, "New", row.stored.Name)
	assert.EqualValues(t, 2, row.stored.RowVersion)
}

func TestWithRetry_RetriesLostRace(t *testing.T) {
	row := newVersionedRow()
	row.bumps = 2
	err := WithRetry(context.Background(), 3, row.stored.ID, row.load, row.update, rename("New"))
	require.NoError(t, err)
	assert.Equal(t, 3, row.loads)
	assert.Equal(t, "New", row.stored.Name)
}

func TestWithRetry_GivesUpUnderContention(t *testing.T) {
	row := newVersionedRow()
	row.bumps = 5
	err := WithRetry(context.Background(), 3, row.stored.ID, row.load, row.update, rename("New"))
	assert.ErrorIs(t, err, ErrContention)
	assert.Equal(t, "Old", row.stored.Name)
}

func TestWithRetry_UnchangedSkipsWrite(t *testing.T) {
	row := newVersionedRow()
	err := WithRetry(context.Background(), 3, row.stored.ID, row.load, row.update, func(*models.Land) error {
		return ErrUnchanged
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, row.stored.RowVersion)
}

func TestWithRetry_MissingAndFailures(t *testing.T) {
	row := newVersionedRow()

	err := WithRetry(context.Background(), 3, uuid.New(), row.load, row.update, rename("New"))
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	boom := errors.New("boom")
	err = WithRetry(context.Background(), 3, row.stored.ID, row.load, row.update, func(*models.Land) error { return boom })
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = WithRetry(ctx, 3, row.stored.ID, row.load, row.update, rename("New"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, row.loads, "a cancelled context never loads")
}
