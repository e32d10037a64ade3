package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFlags(t *testing.T) {
	var flags envFlags

	t.Setenv("CORS_HIGH_SECURITY", "true")
	v, err := flags.Bool("cors_high_security", false)
	require.NoError(t, err)
	assert.True(t, v)

	t.Setenv("SEED_DB_WITH_TEST_DATA", "")
	v, err = flags.Bool("seed_db_with_test_data", true)
	require.NoError(t, err)
	assert.True(t, v, "unset flag falls back")

	t.Setenv("USING_ISOLATED_SCHEMA", "sometimes")
	_, err = flags.Bool("using_isolated_schema", false)
	assert.Error(t, err)
}

func TestLoadStorageConfig_EnvOnly(t *testing.T) {
	t.Setenv("LD_SDK_KEY", "")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/plotline")
	t.Setenv("APP_NAME", "listing-test")
	t.Setenv("SEED_DB_WITH_TEST_DATA", "1")
	t.Setenv("CORS_HIGH_SECURITY", "")
	t.Setenv("USING_ISOLATED_SCHEMA", "")

	cfg := LoadStorageConfig()
	assert.Equal(t, "postgres://localhost:5432/plotline", cfg.DBUrl)
	assert.Equal(t, OrganizationName, cfg.OrganizationName)
	assert.True(t, cfg.LDFlag_SeedDbWithTestData)
	assert.False(t, cfg.LDFlag_CORSHighSecurity)
	assert.False(t, cfg.LDFlag_UsingIsolatedSchema)
	if AppName == "" {
		assert.Equal(t, "listing-test", cfg.AppName)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
