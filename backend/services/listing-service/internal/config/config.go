package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
)

type Config struct {
	OrganizationName           string
	AppName                    string
	AppPort                    string
	AppUrl                     string
	DBUrl                      string
	UniqueRunNumber            string
	UniqueRunnerID             string
	LDFlag_UsingIsolatedSchema bool
	LDFlag_CORSHighSecurity    bool
	LDFlag_SeedDbWithTestData  bool
}

const (
	OrganizationName    = utils.OrganizationName
	LDConnectionTimeout = 5 * time.Second
	DefaultAppName      = "listing-service"
)

// Set through -ldflags at build time. Each one can also come from the
// environment so that `go run` and the CLI work without a build step.
var (
	AppName             string
	UniqueRunNumber     string
	UniqueRunnerID      string
	LDServerContextKey  string
	LDServerContextKind string
)

// flagSource answers boolean feature flags. LaunchDarkly is used when an
// SDK key is configured, the environment otherwise.
type flagSource interface {
	Bool(key string, fallback bool) (bool, error)
	Close()
}

type ldFlags struct {
	client *ld.LDClient
	ctx    ldcontext.Context
}

func (f *ldFlags) Bool(key string, fallback bool) (bool, error) {
	return f.client.BoolVariation(key, f.ctx, fallback)
}

func (f *ldFlags) Close() { _ = f.client.Close() }

type envFlags struct{}

func (envFlags) Bool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(strings.ToUpper(key))
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseBool(raw)
}

func (envFlags) Close() {}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func LoadConfig() *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	appName := firstNonEmpty(AppName, os.Getenv("APP_NAME"), DefaultAppName)
	utils.Logger.Info("Loading config for app: ", appName)

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	appUrl := firstNonEmpty(os.Getenv("APP_URL_FROM_ANYWHERE"), os.Getenv("APP_URL"))
	if appUrl == "" {
		utils.Logger.Fatal("APP_URL_FROM_ANYWHERE env var is missing")
	}

	cfg := loadStorageConfig(appName)
	cfg.AppPort = appPort
	cfg.AppUrl = appUrl
	return cfg
}

// LoadStorageConfig reads only what is needed to reach the database. The
// admin CLI uses it since it never serves HTTP.
func LoadStorageConfig() *Config {
	_ = godotenv.Load()
	return loadStorageConfig(firstNonEmpty(AppName, os.Getenv("APP_NAME"), DefaultAppName))
}

func loadStorageConfig(appName string) *Config {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DATABASE_URL env var is missing")
	}

	flags := newFlagSource()
	defer flags.Close()

	usingIsolatedSchemaFlag, err := flags.Bool("using_isolated_schema", false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving using_isolated_schema flag")
	}
	utils.Logger.Debugf("using_isolated_schema flag: %t", usingIsolatedSchemaFlag)

	corsHighSecurityFlag, err := flags.Bool("cors_high_security", false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving cors_high_security flag")
	}
	utils.Logger.Debugf("cors_high_security flag: %t", corsHighSecurityFlag)

	seedDbWithTestDataFlag, err := flags.Bool("seed_db_with_test_data", false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving seed_db_with_test_data flag")
	}
	utils.Logger.Debugf("seed_db_with_test_data flag: %t", seedDbWithTestDataFlag)

	runNumber := firstNonEmpty(UniqueRunNumber, os.Getenv("UNIQUE_RUN_NUMBER"))
	runnerID := firstNonEmpty(UniqueRunnerID, os.Getenv("UNIQUE_RUNNER_ID"))
	if usingIsolatedSchemaFlag && (runNumber == "" || runnerID == "") {
		utils.Logger.Fatal("UniqueRunNumber and UniqueRunnerID are required with an isolated schema")
	}

	return &Config{
		OrganizationName:           OrganizationName,
		AppName:                    appName,
		DBUrl:                      dbURL,
		UniqueRunNumber:            runNumber,
		UniqueRunnerID:             runnerID,
		LDFlag_UsingIsolatedSchema: usingIsolatedSchemaFlag,
		LDFlag_CORSHighSecurity:    corsHighSecurityFlag,
		LDFlag_SeedDbWithTestData:  seedDbWithTestDataFlag,
	}
}

func newFlagSource() flagSource {
	sdkKey := os.Getenv("LD_SDK_KEY")
	if sdkKey == "" {
		utils.Logger.Info("LD_SDK_KEY not set; reading feature flags from the environment")
		return envFlags{}
	}

	kind := firstNonEmpty(LDServerContextKind, os.Getenv("LD_SERVER_CONTEXT_KIND"))
	key := firstNonEmpty(LDServerContextKey, os.Getenv("LD_SERVER_CONTEXT_KEY"))
	if kind == "" || key == "" {
		utils.Logger.Fatal("LD context ldflags missing")
	}

	client, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	return &ldFlags{
		client: client,
		ctx:    ldcontext.NewWithKind(ldcontext.Kind(kind), key),
	}
}

func (c *Config) Close() {}
