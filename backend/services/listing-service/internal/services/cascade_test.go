package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/dtos"
	"github.com/plotline/mono-repo/backend/shared/go-models"
	"github.com/plotline/mono-repo/backend/shared/go-testhelpers"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedEstate builds LAND01 with two buildings, three units and products on
// the land and on the first building. LAND02 shares the location.
func seedEstate(t *testing.T) (*ListingService, *testhelpers.MemStore) {
	t.Helper()
	svc, store := newTestService(t, codeSequence("LAND01", "LAND02"))
	ctx := context.Background()

	land := newLandPayload("Plot 1")
	blockA := newBuildingPayload("Block A", &land)
	for _, name := range []string{"Flat 1", "Flat 2"} {
		_, err := svc.ResolveUnit(ctx, newUnitPayload(name, &blockA))
		require.NoError(t, err)
	}
	blockB := newBuildingPayload("Block B", landRef("LAND01"))
	_, err := svc.ResolveUnit(ctx, newUnitPayload("Flat 1", &blockB))
	require.NoError(t, err)

	_, err = svc.AssembleProduct(ctx, newProductPayload(landRef("LAND01")))
	require.NoError(t, err)
	onBuilding := newProductPayload(nil)
	onBuilding.Building = buildingRef("LAND01001")
	_, err = svc.AssembleProduct(ctx, onBuilding)
	require.NoError(t, err)

	mustResolveLand(t, svc, newLandPayload("Plot 2"))
	return svc, store
}

func TestDeleteUnit(t *testing.T) {
	svc, store := seedEstate(t)
	ctx := context.Background()

	sum, err := svc.DeleteUnit(ctx, models.ByCustomID("LAND01001002"))
	require.NoError(t, err)
	assert.Equal(t, dtos.DeleteSummary{Units: 1}, *sum)
	assert.Equal(t, 2, store.Count(testhelpers.TableUnits))
	assert.Equal(t, 2, store.Count(testhelpers.TableBuildings))

	_, err = svc.DeleteUnit(ctx, models.ByCustomID("LAND01001002"))
	assert.ErrorIs(t, err, utils.ErrUnitNotFound)
}

func TestDeleteBuilding_KeepsLand(t *testing.T) {
	svc, store := seedEstate(t)
	ctx := context.Background()

	sum, err := svc.DeleteBuilding(ctx, models.ByCustomID("LAND01001"))
	require.NoError(t, err)
	assert.Equal(t, dtos.DeleteSummary{Products: 1, Leases: 1, Media: 1, Units: 2, Buildings: 1}, *sum)

	assert.Equal(t, 1, store.Count(testhelpers.TableBuildings))
	assert.Equal(t, 1, store.Count(testhelpers.TableUnits))
	assert.Equal(t, 1, store.Count(testhelpers.TableProducts))
	assert.Equal(t, 2, store.Count(testhelpers.TableLands))

	_, err = svc.GetProduct(ctx, models.ByCustomID("LAND01"))
	assert.NoError(t, err)
	_, err = svc.GetProduct(ctx, models.ByCustomID("LAND01001"))
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}

func TestDeleteLand_LocationLifecycle(t *testing.T) {
	svc, store := seedEstate(t)
	ctx := context.Background()

	sum, err := svc.DeleteLand(ctx, models.ByCustomID("LAND01"))
	require.NoError(t, err)
	assert.Equal(t, dtos.DeleteSummary{
		Products: 2, Leases: 2, Media: 2, Units: 3, Buildings: 2, Lands: 1,
	}, *sum)
	// LAND02 still points at the location.
	assert.Equal(t, 1, store.Count(testhelpers.TableLocations))
	assert.Equal(t, 0, store.Count(testhelpers.TableBuildings))
	assert.Equal(t, 0, store.Count(testhelpers.TableProducts))
	assert.Equal(t, 0, store.Count(testhelpers.TableLeases))

	sum, err = svc.DeleteLand(ctx, models.ByCustomID("LAND02"))
	require.NoError(t, err)
	assert.Equal(t, dtos.DeleteSummary{Lands: 1, Locations: 1}, *sum)
	assert.Equal(t, 0, store.Count(testhelpers.TableLocations))
	assert.Equal(t, 0, store.Count(testhelpers.TableLands))
}

func TestDeleteProduct(t *testing.T) {
	svc, store := seedEstate(t)
	ctx := context.Background()

	sum, err := svc.DeleteProduct(ctx, models.ByCustomID("LAND01"))
	require.NoError(t, err)
	assert.Equal(t, dtos.DeleteSummary{Products: 1, Leases: 1, Media: 1}, *sum)
	assert.Equal(t, 1, store.Count(testhelpers.TableProducts))
	assert.Equal(t, 2, store.Count(testhelpers.TableLands))

	// The land can carry a product again.
	_, err = svc.AssembleProduct(ctx, newProductPayload(landRef("LAND01")))
	assert.NoError(t, err)

	_, err = svc.DeleteProduct(ctx, models.ByCustomID("NOPE00"))
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}

func TestDeleteLand_RollsBackOnFailure(t *testing.T) {
	svc, store := seedEstate(t)
	ctx := context.Background()
	store.BeforeDelete = func(table string) error {
		if table == testhelpers.TableLands {
			return assert.AnError
		}
		return nil
	}

	// Products, units and buildings are gone by the time the land delete
	// fails; all of it must come back.
	_, err := svc.DeleteLand(ctx, models.ByCustomID("LAND01"))
	assert.ErrorIs(t, err, utils.ErrStorage)
	assert.Equal(t, 2, store.Count(testhelpers.TableLands))
	assert.Equal(t, 2, store.Count(testhelpers.TableBuildings))
	assert.Equal(t, 3, store.Count(testhelpers.TableUnits))
	assert.Equal(t, 2, store.Count(testhelpers.TableProducts))
	assert.Equal(t, 2, store.Count(testhelpers.TableLeases))
	assert.Equal(t, 2, store.Count(testhelpers.TableMedia))

	_, err = svc.DeleteLand(ctx, models.ByCustomID("NOPE00"))
	assert.ErrorIs(t, err, utils.ErrLandNotFound)
}

func TestDeleteLocation(t *testing.T) {
	svc, store := seedEstate(t)
	ctx := context.Background()

	land, err := svc.GetLand(ctx, models.ByCustomID("LAND02"))
	require.NoError(t, err)
	locationID := land.Location.ID

	// Both lands still sit on it.
	_, err = svc.DeleteLocation(ctx, locationID)
	assert.ErrorIs(t, err, utils.ErrLocationInUse)
	assert.Equal(t, utils.ErrCodeConflict, utils.ErrorCode(err))
	assert.Equal(t, 1, store.Count(testhelpers.TableLocations))
	assert.Equal(t, 2, store.Count(testhelpers.TableLands))

	_, err = svc.DeleteLocation(ctx, uuid.New())
	assert.ErrorIs(t, err, utils.ErrLocationNotFound)

	// A location nothing points at is removed on its own.
	orphan, err := svc.ResolveLocation(ctx, dtos.LocationPayload{
		Country:   utils.Ptr("Kenya"),
		Latitude:  -1.292066,
		Longitude: 36.821946,
	})
	require.NoError(t, err)
	sum, err := svc.DeleteLocation(ctx, orphan.Location.ID)
	require.NoError(t, err)
	assert.Equal(t, dtos.DeleteSummary{Locations: 1}, *sum)
	assert.Equal(t, 1, store.Count(testhelpers.TableLocations))

	_, err = svc.GetLocation(ctx, orphan.Location.ID)
	assert.ErrorIs(t, err, utils.ErrLocationNotFound)
}
