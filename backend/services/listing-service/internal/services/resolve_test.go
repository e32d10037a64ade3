package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/dtos"
	"github.com/plotline/mono-repo/backend/shared/go-models"
	"github.com/plotline/mono-repo/backend/shared/go-repositories"
	"github.com/plotline/mono-repo/backend/shared/go-testhelpers"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocation_NormalizesCoordinates(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.ResolveLocation(ctx, *arushaLocation())
	require.NoError(t, err)
	assert.False(t, first.Location.Existed)

	// Same point given as strings with extra digits beyond the stored precision.
	again := arushaLocation()
	again.Latitude = " -3.3869250004 "
	again.Longitude = "36.682995"
	second, err := svc.ResolveLocation(ctx, *again)
	require.NoError(t, err)
	assert.True(t, second.Location.Existed)
	assert.Equal(t, first.Location.ID, second.Location.ID)
	assert.Equal(t, 1, store.Count(testhelpers.TableLocations))

	loc, err := svc.GetLocation(ctx, first.Location.ID)
	require.NoError(t, err)
	assert.Equal(t, "-3.386925", loc.Latitude)
	assert.Equal(t, "36.682995", loc.Longitude)
	assert.Len(t, loc.Geohash, utils.GeohashPrecision)
	assert.Equal(t, "Africa/Dar_es_Salaam", loc.TimeZone)
}

func TestNormalizeCoordinate(t *testing.T) {
	assert.Equal(t, "0.000000", NormalizeCoordinate(-0.0000001))
	assert.Equal(t, "0.000000", NormalizeCoordinate(0))
	assert.Equal(t, "-1.500000", NormalizeCoordinate(-1.5))
	assert.Equal(t, "12.345679", NormalizeCoordinate(12.3456789))
}

func TestResolveLocation_Validation(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	p := arushaLocation()
	p.Country = utils.Ptr("  ")
	_, err := svc.ResolveLocation(ctx, *p)
	assert.ErrorIs(t, err, utils.ErrMissingField)

	p = arushaLocation()
	p.Latitude = 91.0
	_, err = svc.ResolveLocation(ctx, *p)
	require.Error(t, err)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)

	p = arushaLocation()
	p.Longitude = "east"
	_, err = svc.ResolveLocation(ctx, *p)
	assert.ErrorIs(t, err, utils.ErrInvalidField)

	_, err = svc.ResolveLocation(ctx, dtos.LocationPayload{LocationID: utils.Ptr(uuid.New())})
	assert.ErrorIs(t, err, utils.ErrLocationNotFound)

	assert.Equal(t, 0, store.Count(testhelpers.TableLocations))
}

func TestResolveLand_Idempotent(t *testing.T) {
	svc, store := newTestService(t, nil)

	first := mustResolveLand(t, svc, newLandPayload("Green Acres"))
	assert.False(t, first.Land.Existed)
	assert.False(t, first.Location.Existed)
	assert.Regexp(t, `^[A-Za-z0-9]{6}$`, first.Land.CustomID)

	second := mustResolveLand(t, svc, newLandPayload("  <em>Green Acres</em> "))
	assert.True(t, second.Land.Existed)
	assert.True(t, second.Location.Existed)
	assert.Equal(t, first.Land.ID, second.Land.ID)
	assert.Equal(t, first.Land.CustomID, second.Land.CustomID)

	assert.Equal(t, 1, store.Count(testhelpers.TableLands))
	assert.Equal(t, 1, store.Count(testhelpers.TableLocations))
}

func TestResolveLand_SharedLocation(t *testing.T) {
	svc, store := newTestService(t, codeSequence("LAND01", "LAND02"))

	a := mustResolveLand(t, svc, newLandPayload("Plot 1"))
	b := mustResolveLand(t, svc, newLandPayload("Plot 2"))

	assert.NotEqual(t, a.Land.ID, b.Land.ID)
	assert.Equal(t, "LAND01", a.Land.CustomID)
	assert.Equal(t, "LAND02", b.Land.CustomID)
	assert.Equal(t, a.Location.ID, b.Location.ID)
	assert.True(t, b.Location.Existed)
	assert.Equal(t, 2, store.Count(testhelpers.TableLands))
	assert.Equal(t, 1, store.Count(testhelpers.TableLocations))
}

func TestResolveLand_StoresSanitizedFields(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	p := newLandPayload("Hill View")
	p.Size = "2500"
	p.Registered = "true"
	p.RegistrationDate = "2019-07-01"
	p.Features = []string{" <b>fenced</b>", "", "water"}
	p.Topography = utils.Ptr("   ")
	res := mustResolveLand(t, svc, p)

	got, err := svc.GetLand(ctx, models.ByCustomID(res.Land.CustomID))
	require.NoError(t, err)
	assert.Equal(t, "Hill View", got.Land.Name)
	assert.Equal(t, 2500.0, got.Land.Size)
	assert.True(t, got.Land.Registered)
	require.NotNil(t, got.Land.RegistrationDate)
	assert.Equal(t, 2019, got.Land.RegistrationDate.Year())
	assert.Equal(t, []string{"fenced", "water"}, got.Land.Features)
	assert.Nil(t, got.Land.Topography)
	assert.Equal(t, res.Location.ID, got.Location.ID)
}

func TestResolveLand_Validation(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	for _, tc := range []struct {
		field  string
		mutate func(*dtos.LandPayload)
	}{
		{"name", func(p *dtos.LandPayload) { p.Name = nil }},
		{"size", func(p *dtos.LandPayload) { p.Size = nil }},
		{"description", func(p *dtos.LandPayload) { p.Description = utils.Ptr("<p> </p>") }},
		{"location", func(p *dtos.LandPayload) { p.Location = nil }},
	} {
		p := newLandPayload("Plot")
		tc.mutate(&p)
		_, err := svc.ResolveLand(ctx, p)
		require.Error(t, err, tc.field)
		assert.ErrorIs(t, err, utils.ErrMissingField, tc.field)
		assert.Contains(t, err.Error(), tc.field)
	}
	assert.Equal(t, 0, store.Count(testhelpers.TableLands))
	assert.Equal(t, 0, store.Count(testhelpers.TableLocations))
}

func TestResolve_RejectsNegativeSize(t *testing.T) {
	svc, store := newTestService(t, codeSequence("AB12CD"))
	ctx := context.Background()

	land := newLandPayload("Plot")
	land.Size = -42
	_, err := svc.ResolveLand(ctx, land)
	assert.ErrorIs(t, err, utils.ErrInvalidField)
	assert.Equal(t, 0, store.Count(testhelpers.TableLands))

	mustResolveLand(t, svc, newLandPayload("Plot"))

	building := newBuildingPayload("Block A", landRef("AB12CD"))
	building.Size = "-1"
	_, err = svc.ResolveBuilding(ctx, building)
	assert.ErrorIs(t, err, utils.ErrInvalidField)
	assert.Equal(t, 0, store.Count(testhelpers.TableBuildings))

	unit := newUnitPayload("Flat 1", &dtos.BuildingPayload{CustomID: utils.Ptr("AB12CD001")})
	unit.Size = -0.5
	_, err = svc.ResolveUnit(ctx, unit)
	assert.ErrorIs(t, err, utils.ErrInvalidField)
	assert.Equal(t, 0, store.Count(testhelpers.TableUnits))
}

func TestResolveLand_References(t *testing.T) {
	svc, _ := newTestService(t, codeSequence("AB12CD"))
	ctx := context.Background()
	created := mustResolveLand(t, svc, newLandPayload("Plot 1"))

	byCode, err := svc.ResolveLand(ctx, dtos.LandPayload{CustomID: utils.Ptr("AB12CD")})
	require.NoError(t, err)
	assert.True(t, byCode.Land.Existed)
	assert.Equal(t, created.Land.ID, byCode.Land.ID)
	assert.Equal(t, created.Location.ID, byCode.Location.ID)

	byID, err := svc.ResolveLand(ctx, dtos.LandPayload{ID: utils.Ptr(created.Land.ID)})
	require.NoError(t, err)
	assert.Equal(t, "AB12CD", byID.Land.CustomID)

	_, err = svc.ResolveLand(ctx, dtos.LandPayload{ID: utils.Ptr(created.Land.ID), CustomID: utils.Ptr("AB12CD")})
	assert.ErrorIs(t, err, utils.ErrAmbiguousReference)

	_, err = svc.ResolveLand(ctx, dtos.LandPayload{CustomID: utils.Ptr("ZZZZZZ")})
	assert.ErrorIs(t, err, utils.ErrLandNotFound)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)

	_, err = svc.ResolveLand(ctx, dtos.LandPayload{CustomID: utils.Ptr("")})
	assert.ErrorIs(t, err, utils.ErrInvalidField)
}

func TestResolveBuilding_SequentialCodes(t *testing.T) {
	svc, store := newTestService(t, codeSequence("AB12CD"))
	land := newLandPayload("Plot 1")

	a := mustResolveBuilding(t, svc, newBuildingPayload("Block A", &land))
	assert.Equal(t, "AB12CD001", a.Building.CustomID)
	assert.False(t, a.Building.Existed)
	assert.False(t, a.Land.Existed)

	b := mustResolveBuilding(t, svc, newBuildingPayload("Block B", &land))
	assert.Equal(t, "AB12CD002", b.Building.CustomID)
	assert.True(t, b.Land.Existed)
	assert.Equal(t, a.Land.ID, b.Land.ID)

	again := mustResolveBuilding(t, svc, newBuildingPayload("Block A", landRef("AB12CD")))
	assert.True(t, again.Building.Existed)
	assert.Equal(t, a.Building.ID, again.Building.ID)
	assert.Equal(t, "AB12CD001", again.Building.CustomID)

	assert.Equal(t, 2, store.Count(testhelpers.TableBuildings))
	assert.Equal(t, 1, store.Count(testhelpers.TableLands))
}

func TestResolveBuilding_CodesContinueAfterGaps(t *testing.T) {
	svc, _ := newTestService(t, codeSequence("AB12CD"))
	ctx := context.Background()
	land := newLandPayload("Plot 1")

	mustResolveBuilding(t, svc, newBuildingPayload("Block A", &land))
	mustResolveBuilding(t, svc, newBuildingPayload("Block B", &land))
	mustResolveBuilding(t, svc, newBuildingPayload("Block C", &land))

	_, err := svc.DeleteBuilding(ctx, models.ByCustomID("AB12CD002"))
	require.NoError(t, err)

	// Allocation follows the highest code, so freed codes are not reused.
	d := mustResolveBuilding(t, svc, newBuildingPayload("Block D", &land))
	assert.Equal(t, "AB12CD004", d.Building.CustomID)
}

func TestResolveBuilding_CapacityExhausted(t *testing.T) {
	svc, store := newTestService(t, codeSequence("AB12CD"))
	ctx := context.Background()
	land := mustResolveLand(t, svc, newLandPayload("Plot 1"))

	err := store.InTx(ctx, func(tx repositories.Tx) error {
		return tx.Buildings().Create(ctx, &models.Building{
			ID:             uuid.New(),
			CustomID:       "AB12CD999",
			LandID:         land.Land.ID,
			Name:           "Last Block",
			NumberOfFloors: 1,
			Size:           10,
			Description:    "seeded",
		})
	})
	require.NoError(t, err)

	_, err = svc.ResolveBuilding(ctx, newBuildingPayload("One Too Many", landRef("AB12CD")))
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrCapacityExhausted)
	assert.Equal(t, utils.ErrCodeCapacityExhausted, utils.ErrorCode(err))
	assert.Equal(t, 1, store.Count(testhelpers.TableBuildings))

	// An existing building under a full land still resolves.
	again, err := svc.ResolveBuilding(ctx, newBuildingPayload("Last Block", landRef("AB12CD")))
	require.NoError(t, err)
	assert.True(t, again.Building.Existed)
}

func TestResolveBuilding_Validation(t *testing.T) {
	svc, store := newTestService(t, nil)
	land := newLandPayload("Plot 1")

	p := newBuildingPayload("Block A", &land)
	p.NumberOfFloors = nil
	_, err := svc.ResolveBuilding(context.Background(), p)
	assert.ErrorIs(t, err, utils.ErrMissingField)
	assert.Contains(t, err.Error(), "number_of_floors")

	p = newBuildingPayload("Block A", nil)
	_, err = svc.ResolveBuilding(context.Background(), p)
	assert.ErrorIs(t, err, utils.ErrMissingField)

	assert.Equal(t, 0, store.Count(testhelpers.TableLands))
	assert.Equal(t, 0, store.Count(testhelpers.TableLocations))
}

func TestResolveUnit_FromScratch(t *testing.T) {
	svc, store := newTestService(t, codeSequence("AB12CD"))
	ctx := context.Background()

	land := newLandPayload("Plot 1")
	building := newBuildingPayload("Block A", &land)
	res, err := svc.ResolveUnit(ctx, newUnitPayload("Flat 2A", &building))
	require.NoError(t, err)

	assert.False(t, res.Unit.Existed)
	assert.False(t, res.Building.Existed)
	assert.False(t, res.Land.Existed)
	assert.False(t, res.Location.Existed)
	assert.Equal(t, "AB12CD001001", res.Unit.CustomID)
	assert.Equal(t, "AB12CD001", res.Building.CustomID)
	assert.Equal(t, "AB12CD", res.Land.CustomID)

	for _, table := range []string{
		testhelpers.TableLocations, testhelpers.TableLands,
		testhelpers.TableBuildings, testhelpers.TableUnits,
	} {
		assert.Equal(t, 1, store.Count(table), table)
	}

	got, err := svc.GetUnit(ctx, models.BySystemID(res.Unit.ID))
	require.NoError(t, err)
	assert.Equal(t, res.Building.ID, got.Unit.BuildingID)
	assert.Equal(t, res.Land.ID, got.Building.LandID)
	assert.Equal(t, res.Location.ID, got.Land.LocationID)
	assert.Equal(t, 2, got.Unit.FloorLevel)
	require.NotNil(t, got.Unit.Bedrooms)
	assert.Equal(t, 2, *got.Unit.Bedrooms)

	second, err := svc.ResolveUnit(ctx, newUnitPayload("Flat 2B", buildingRef("AB12CD001")))
	require.NoError(t, err)
	assert.Equal(t, "AB12CD001002", second.Unit.CustomID)
	assert.True(t, second.Building.Existed)

	again, err := svc.ResolveUnit(ctx, newUnitPayload("Flat 2A", &building))
	require.NoError(t, err)
	assert.True(t, again.Unit.Existed)
	assert.Equal(t, res.Unit.ID, again.Unit.ID)
	assert.Equal(t, 2, store.Count(testhelpers.TableUnits))
}

func TestResolveUnit_RollsBackWholeChain(t *testing.T) {
	svc, store := newTestService(t, nil)
	store.BeforeInsert = func(table string) error {
		if table == testhelpers.TableUnits {
			return errors.New("disk full")
		}
		return nil
	}

	land := newLandPayload("Plot 1")
	building := newBuildingPayload("Block A", &land)
	_, err := svc.ResolveUnit(context.Background(), newUnitPayload("Flat 2A", &building))
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrStorage)
	assert.Equal(t, utils.ErrCodeStorage, utils.ErrorCode(err))

	for _, table := range []string{
		testhelpers.TableLocations, testhelpers.TableLands,
		testhelpers.TableBuildings, testhelpers.TableUnits,
	} {
		assert.Equal(t, 0, store.Count(table), table)
	}
}

func TestResolveUnit_ExplicitReference(t *testing.T) {
	svc, _ := newTestService(t, codeSequence("AB12CD"))
	ctx := context.Background()
	land := newLandPayload("Plot 1")
	building := newBuildingPayload("Block A", &land)
	created, err := svc.ResolveUnit(ctx, newUnitPayload("Flat 2A", &building))
	require.NoError(t, err)

	res, err := svc.ResolveUnit(ctx, dtos.UnitPayload{CustomID: utils.Ptr("AB12CD001001")})
	require.NoError(t, err)
	assert.True(t, res.Unit.Existed)
	assert.Equal(t, created.Unit.ID, res.Unit.ID)
	assert.Equal(t, created.Location.ID, res.Location.ID)

	_, err = svc.ResolveUnit(ctx, dtos.UnitPayload{CustomID: utils.Ptr("AB12CD001999")})
	assert.ErrorIs(t, err, utils.ErrUnitNotFound)
}

// A competing transaction commits the same land between our natural-key
// miss and our insert. We must end up reusing its row.
func TestResolveLand_NaturalKeyRace(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	var (
		fired bool
		rival *dtos.ResolveLandResponse
	)
	store.AfterNaturalKeyMiss = func(table string) {
		if table != testhelpers.TableLands {
			return
		}
		if fired {
			return
		}
		fired = true
		var err error
		rival, err = svc.ResolveLand(ctx, newLandPayload("Green Acres"))
		require.NoError(t, err)
	}

	res := mustResolveLand(t, svc, newLandPayload("Green Acres"))
	require.NotNil(t, rival)
	assert.False(t, rival.Land.Existed)
	assert.True(t, res.Land.Existed)
	assert.Equal(t, rival.Land.ID, res.Land.ID)
	assert.Equal(t, rival.Land.CustomID, res.Land.CustomID)
	assert.Equal(t, 1, store.Count(testhelpers.TableLands))
	assert.Equal(t, 1, store.Count(testhelpers.TableLocations))
}

// A competing transaction takes the code we drew for a different land. We
// must draw again rather than fail.
func TestResolveLand_CustomIDRace(t *testing.T) {
	svc, store := newTestService(t, codeSequence("RACE01", "RACE01", "OTHER1"))
	ctx := context.Background()

	var (
		fired bool
		rival *dtos.ResolveLandResponse
	)
	store.BeforeInsert = func(table string) error {
		if table != testhelpers.TableLands {
			return nil
		}
		if fired {
			return nil
		}
		fired = true
		var err error
		rival, err = svc.ResolveLand(ctx, newLandPayload("Plot 2"))
		require.NoError(t, err)
		return nil
	}

	res := mustResolveLand(t, svc, newLandPayload("Plot 1"))
	require.NotNil(t, rival)
	assert.Equal(t, "RACE01", rival.Land.CustomID)
	assert.Equal(t, "OTHER1", res.Land.CustomID)
	assert.False(t, res.Land.Existed)
	assert.Equal(t, 2, store.Count(testhelpers.TableLands))
}

func TestResolveLand_ConcurrentCallers(t *testing.T) {
	svc, store := newTestService(t, nil)
	const callers = 8

	var wg sync.WaitGroup
	results := make(chan *dtos.ResolveLandResponse, callers)
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.ResolveLand(context.Background(), newLandPayload("Green Acres"))
			if err != nil {
				errs <- err
				return
			}
			results <- res
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	ids := map[uuid.UUID]bool{}
	created := 0
	for res := range results {
		ids[res.Land.ID] = true
		if !res.Land.Existed {
			created++
		}
	}
	assert.Len(t, ids, 1)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, store.Count(testhelpers.TableLands))
	assert.Equal(t, 1, store.Count(testhelpers.TableLocations))
}

func TestResolveBuilding_ConcurrentSiblings(t *testing.T) {
	svc, store := newTestService(t, codeSequence("AB12CD"))
	mustResolveLand(t, svc, newLandPayload("Plot 1"))
	const callers = 10

	var wg sync.WaitGroup
	codes := make(chan string, callers)
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			res, err := svc.ResolveBuilding(context.Background(),
				newBuildingPayload(fmt.Sprintf("Block %d", n), landRef("AB12CD")))
			if err != nil {
				errs <- err
				return
			}
			codes <- res.Building.CustomID
		}(i)
	}
	wg.Wait()
	close(codes)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	var got []string
	for c := range codes {
		got = append(got, c)
	}
	sort.Strings(got)
	want := make([]string, callers)
	for i := range want {
		want[i] = fmt.Sprintf("AB12CD%03d", i+1)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, callers, store.Count(testhelpers.TableBuildings))
}
