package seeding

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/plotline/mono-repo/backend/shared/go-repositories"
	"github.com/plotline/mono-repo/backend/shared/go-testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoEstate(t *testing.T) {
	ctx := context.Background()
	store := testhelpers.NewMemStore()

	require.NoError(t, SeedDemoEstate(ctx, store))

	assert.Equal(t, 1, store.Count(testhelpers.TableLocations))
	assert.Equal(t, 1, store.Count(testhelpers.TableLands))
	assert.Equal(t, 2, store.Count(testhelpers.TableBuildings))
	assert.Equal(t, 4, store.Count(testhelpers.TableUnits))
	assert.Equal(t, 1, store.Count(testhelpers.TableProducts))

	err := store.InTx(ctx, func(tx repositories.Tx) error {
		b, err := tx.Buildings().GetByCustomID(ctx, "DEMO01002")
		require.NoError(t, err)
		require.NotNil(t, b)
		assert.Equal(t, "Block B", b.Name)

		u, err := tx.Units().GetByCustomID(ctx, "DEMO01001003")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "A-201", u.Name)

		p, err := tx.Products().GetByID(ctx, uuid.MustParse(DemoProductID))
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, DemoLandCode, p.CustomID)
		require.NotNil(t, p.LeaseID)

		lease := store.Lease(*p.LeaseID)
		require.NotNil(t, lease)
		require.NotNil(t, lease.ProductID)
		assert.Equal(t, p.ID, *lease.ProductID)
		return nil
	})
	require.NoError(t, err)
}

func TestSeedDemoEstate_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := testhelpers.NewMemStore()

	require.NoError(t, SeedDemoEstate(ctx, store))
	require.NoError(t, SeedDemoEstate(ctx, store))

	assert.Equal(t, 1, store.Count(testhelpers.TableLands))
	assert.Equal(t, 4, store.Count(testhelpers.TableUnits))
}

func TestSeedDemoEstate_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	store := testhelpers.NewMemStore()
	store.BeforeInsert = func(table string) error {
		if table == testhelpers.TableProducts {
			return errors.New("disk full")
		}
		return nil
	}

	require.Error(t, SeedDemoEstate(ctx, store))
	assert.Zero(t, store.Count(testhelpers.TableLocations))
	assert.Zero(t, store.Count(testhelpers.TableLands))
	assert.Zero(t, store.Count(testhelpers.TableUnits))
}

func TestDemoChildCode(t *testing.T) {
	assert.Equal(t, "DEMO01001", DemoChildCode("DEMO01", 1))
	assert.Equal(t, "DEMO01001012", DemoChildCode("DEMO01001", 12))
}
