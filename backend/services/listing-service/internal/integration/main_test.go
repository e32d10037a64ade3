//go:build (dev_test || staging_test) && integration

package integration

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/plotline/mono-repo/backend/services/listing-service/internal/config"
	"github.com/plotline/mono-repo/backend/shared/go-testhelpers"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
	_ "time/tzdata"
)

// Global test-level variables
var h *testhelpers.TestHelper

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// TestMain sets up a single TestHelper for all integration tests in this package.
func TestMain(m *testing.M) {
	utils.InitLogger(config.AppName)

	appName := orDefault(config.AppName, config.DefaultAppName)
	runnerID := orDefault(config.UniqueRunnerID, orDefault(os.Getenv("UNIQUE_RUNNER_ID"), "local"))
	runNumber := orDefault(config.UniqueRunNumber, orDefault(os.Getenv("UNIQUE_RUN_NUMBER"), fmt.Sprint(time.Now().Unix())))

	// Use a dummy testing.T to initialize the helper.
	// We can't use one from a real test since TestMain runs before tests.
	t := &testing.T{}
	h = testhelpers.NewTestHelper(t, appName, runnerID, runNumber)

	log.Printf("listing-service integration tests: DB connected, schema=%s, baseURL=%s, env=%s", h.Schema, h.BaseURL, os.Getenv("ENV"))

	code := m.Run()

	h.Close()
	os.Exit(code)
}
