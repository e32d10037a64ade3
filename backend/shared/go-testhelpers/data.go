// backend/shared/go-testhelpers/data.go

package testhelpers

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/plotline/mono-repo/backend/shared/go-models"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
	"github.com/stretchr/testify/require"
)

// UniqueName generates a name no other test run will produce.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, time.Now().UnixNano())
}

// UniqueCoordinates returns a random point so location natural keys never
// collide between tests sharing a database.
func UniqueCoordinates() (float64, float64) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return r.Float64()*170 - 85, r.Float64()*350 - 175
}

// CreateTestLocation persists a location directly through the repository.
func (h *TestHelper) CreateTestLocation(ctx context.Context, country string) *models.Location {
	lat, lng := UniqueCoordinates()
	loc := &models.Location{
		ID:        uuid.New(),
		Country:   country,
		Latitude:  strconv.FormatFloat(lat, 'f', utils.CoordinatePrecision, 64),
		Longitude: strconv.FormatFloat(lng, 'f', utils.CoordinatePrecision, 64),
		Geohash:   "s00000000",
		TimeZone:  "UTC",
	}
	require.NoError(h.T, h.LocationRepo.Create(ctx, loc), "Failed to create test location")
	return loc
}

// CreateTestLand persists a land with a fixed custom code under locationID.
func (h *TestHelper) CreateTestLand(ctx context.Context, locationID uuid.UUID, customID, name string) *models.Land {
	land := &models.Land{
		ID:          uuid.New(),
		CustomID:    customID,
		LocationID:  locationID,
		Name:        name,
		Size:        1000,
		Description: "Test land",
	}
	require.NoError(h.T, h.LandRepo.Create(ctx, land), "Failed to create test land")

	created, err := h.LandRepo.GetByID(ctx, land.ID)
	require.NoError(h.T, err)
	require.NotNil(h.T, created, "Failed to fetch land immediately after creation")
	return created
}

// CreateTestBuilding persists a building with a fixed custom code.
func (h *TestHelper) CreateTestBuilding(ctx context.Context, landID uuid.UUID, customID, name string) *models.Building {
	b := &models.Building{
		ID:             uuid.New(),
		CustomID:       customID,
		LandID:         landID,
		Name:           name,
		NumberOfFloors: 1,
		Size:           100,
		Description:    "Test building",
	}
	require.NoError(h.T, h.BuildingRepo.Create(ctx, b), "Failed to create test building")
	return b
}

// UniqueLandCode returns a six character code unlikely to exist yet.
func UniqueLandCode() string {
	return utils.RandomAlphanumeric(utils.LandCodeLength)
}
