package testhelpers

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/plotline/mono-repo/backend/shared/go-repositories"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
	"github.com/stretchr/testify/require"
)

// TestHelper encapsulates all necessary components for running integration tests
// against a real Postgres and, optionally, a running listing-service.
type TestHelper struct {
	T       *testing.T
	Ctx     context.Context
	BaseURL string
	DB      *pgxpool.Pool
	Schema  string
	TxR     repositories.TxRunner

	// From ldflags
	AppName         string
	UniqueRunNumber string
	UniqueRunnerID  string

	// Repositories, bound to the pool outside any transaction
	LocationRepo repositories.LocationRepository
	LandRepo     repositories.LandRepository
	BuildingRepo repositories.BuildingRepository
	UnitRepo     repositories.UnitRepository
	ProductRepo  repositories.ProductRepository
	LeaseRepo    repositories.LeaseRepository
	MediaRepo    repositories.MediaRepository
}

// NewTestHelper connects to DATABASE_URL inside a schema private to this run,
// applies the schema and wires the repositories. It's designed to be called
// once from a TestMain function. APP_URL_FROM_ANYWHERE is optional; HTTP
// tests skip themselves when it is empty.
func NewTestHelper(t *testing.T, appName, uniqueRunID, uniqueRunNum string) *TestHelper {
	// 1. Load environment
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL env var is missing")
	}
	baseURL := os.Getenv("APP_URL_FROM_ANYWHERE")

	// 2. Isolate this run in its own schema
	effectiveURL, schema, err := utils.WithIsolatedSchema(dbURL, uniqueRunID, uniqueRunNum)
	require.NoError(t, err)

	ctx := context.Background()
	dbPool, err := pgxpool.Connect(ctx, effectiveURL)
	require.NoError(t, err)

	_, err = dbPool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize())
	require.NoError(t, err, "Failed to create run schema")
	require.NoError(t, repositories.Migrate(ctx, dbPool), "Failed to apply schema")

	// 3. Initialize all repositories and the helper
	return &TestHelper{
		T:               t,
		Ctx:             ctx,
		BaseURL:         baseURL,
		DB:              dbPool,
		Schema:          schema,
		TxR:             repositories.NewTxRunner(dbPool),
		AppName:         appName,
		UniqueRunnerID:  uniqueRunID,
		UniqueRunNumber: uniqueRunNum,
		LocationRepo:    repositories.NewLocationRepository(dbPool),
		LandRepo:        repositories.NewLandRepository(dbPool),
		BuildingRepo:    repositories.NewBuildingRepository(dbPool),
		UnitRepo:        repositories.NewUnitRepository(dbPool),
		ProductRepo:     repositories.NewProductRepository(dbPool),
		LeaseRepo:       repositories.NewLeaseRepository(dbPool),
		MediaRepo:       repositories.NewMediaRepository(dbPool),
	}
}

// Close releases what NewTestHelper acquired. TestMain must call it because a
// dummy testing.T never runs its cleanups.
func (h *TestHelper) Close() {
	if os.Getenv("KEEP_TEST_SCHEMA") == "" {
		_, _ = h.DB.Exec(context.Background(), "DROP SCHEMA IF EXISTS "+pgx.Identifier{h.Schema}.Sanitize()+" CASCADE")
	}
	h.DB.Close()
}

// RequireAPI skips the current test when no running service is reachable.
func (h *TestHelper) RequireAPI(t *testing.T) {
	if h.BaseURL == "" {
		t.Skip("APP_URL_FROM_ANYWHERE not set")
	}
}
