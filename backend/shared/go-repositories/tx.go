package repositories

import (
	"context"
	"fmt"
)

// Tx binds every repository to one database transaction.
type Tx interface {
	Locations() LocationRepository
	Lands() LandRepository
	Buildings() BuildingRepository
	Units() UnitRepository
	Products() ProductRepository
	Leases() LeaseRepository
	Media() MediaRepository

	// Savepoint runs fn in a nested transaction. When fn fails only its own
	// writes are undone and the enclosing transaction stays usable.
	Savepoint(ctx context.Context, fn func(Tx) error) error
}

// TxRunner opens a transaction, hands it to fn and commits when fn returns
// nil. Any error rolls back everything fn wrote.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Tx) error) error
}

/* ------------------------------------------------------------------
   Postgres implementation
------------------------------------------------------------------ */

type pgTxRunner struct {
	db DB
}

func NewTxRunner(db DB) TxRunner {
	return &pgTxRunner{db: db}
}

func (r *pgTxRunner) InTx(ctx context.Context, fn func(Tx) error) error {
	return runInTx(ctx, r.db, fn)
}

type pgTx struct {
	db DB
}

func newPgTx(db DB) *pgTx { return &pgTx{db: db} }

func (t *pgTx) Locations() LocationRepository { return NewLocationRepository(t.db) }
func (t *pgTx) Lands() LandRepository         { return NewLandRepository(t.db) }
func (t *pgTx) Buildings() BuildingRepository { return NewBuildingRepository(t.db) }
func (t *pgTx) Units() UnitRepository         { return NewUnitRepository(t.db) }
func (t *pgTx) Products() ProductRepository   { return NewProductRepository(t.db) }
func (t *pgTx) Leases() LeaseRepository       { return NewLeaseRepository(t.db) }
func (t *pgTx) Media() MediaRepository        { return NewMediaRepository(t.db) }

// Savepoint relies on pgx turning Begin on a pgx.Tx into SAVEPOINT.
func (t *pgTx) Savepoint(ctx context.Context, fn func(Tx) error) error {
	return runInTx(ctx, t.db, fn)
}

func runInTx(ctx context.Context, db DB, fn func(Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if cerr := tx.Commit(ctx); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()

	err = fn(newPgTx(tx))
	return err
}
