package services

import (
	"context"
	"sync"
	"testing"

	"github.com/plotline/mono-repo/backend/services/listing-service/internal/dtos"
	"github.com/plotline/mono-repo/backend/shared/go-testhelpers"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func init() {
	utils.Logger.SetLevel(logrus.WarnLevel)
}

func newTestService(t *testing.T, gen CodeGenerator) (*ListingService, *testhelpers.MemStore) {
	t.Helper()
	store := testhelpers.NewMemStore()
	return NewListingServiceWithCodes(store, gen), store
}

// codeSequence hands out codes in order and then repeats the last one.
func codeSequence(codes ...string) CodeGenerator {
	var (
		mu sync.Mutex
		i  int
	)
	return func(int) string {
		mu.Lock()
		defer mu.Unlock()
		c := codes[min(i, len(codes)-1)]
		i++
		return c
	}
}

func arushaLocation() *dtos.LocationPayload {
	return &dtos.LocationPayload{
		Country:     utils.Ptr("Tanzania"),
		StateRegion: utils.Ptr("Arusha"),
		Ward:        utils.Ptr("Themi"),
		Latitude:    -3.386925,
		Longitude:   36.682995,
	}
}

func newLandPayload(name string) dtos.LandPayload {
	return dtos.LandPayload{
		Name:        utils.Ptr(name),
		Size:        1200.5,
		Description: utils.Ptr("Flat parcel close to the main road"),
		Features:    []string{"fenced", "borehole"},
		Zoning:      utils.Ptr("residential"),
		Location:    arushaLocation(),
	}
}

func newBuildingPayload(name string, land *dtos.LandPayload) dtos.BuildingPayload {
	return dtos.BuildingPayload{
		Name:           utils.Ptr(name),
		Description:    utils.Ptr("Three storey apartment block"),
		Size:           "450",
		NumberOfFloors: 3,
		Amenities:      []string{"parking"},
		Land:           land,
	}
}

func newUnitPayload(name string, building *dtos.BuildingPayload) dtos.UnitPayload {
	return dtos.UnitPayload{
		Name:       utils.Ptr(name),
		FloorLevel: "2",
		Size:       64.0,
		Bedrooms:   2,
		Building:   building,
	}
}

func landRef(code string) *dtos.LandPayload {
	return &dtos.LandPayload{CustomID: utils.Ptr(code)}
}

func buildingRef(code string) *dtos.BuildingPayload {
	return &dtos.BuildingPayload{CustomID: utils.Ptr(code)}
}

func mustResolveLand(t *testing.T, svc *ListingService, p dtos.LandPayload) *dtos.ResolveLandResponse {
	t.Helper()
	res, err := svc.ResolveLand(context.Background(), p)
	require.NoError(t, err)
	return res
}

func mustResolveBuilding(t *testing.T, svc *ListingService, p dtos.BuildingPayload) *dtos.ResolveBuildingResponse {
	t.Helper()
	res, err := svc.ResolveBuilding(context.Background(), p)
	require.NoError(t, err)
	return res
}
