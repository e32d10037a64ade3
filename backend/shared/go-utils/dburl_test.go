package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithIsolatedSchema(t *testing.T) {
	out, schema, err := WithIsolatedSchema("postgres://app:secret@db:5432/listing?sslmode=disable", "Runner-7", "42")
	require.NoError(t, err)
	assert.Equal(t, "run_runner_7_42", schema)

	u, err := url.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "run_runner_7_42", u.Query().Get("search_path"))
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	pw, _ := u.User.Password()
	assert.Equal(t, "secret", pw)

	_, _, err = WithIsolatedSchema("postgres://db/listing", "", "1")
	assert.Error(t, err)
}
