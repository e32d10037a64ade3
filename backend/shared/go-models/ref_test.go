package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	id := uuid.New()

	ref, err := ParseRef("id", id.String())
	require.NoError(t, err)
	assert.Equal(t, RefBySystemID, ref.Kind())
	assert.Equal(t, id, ref.SystemID())

	ref, err = ParseRef("custom_id", "AB12CD")
	require.NoError(t, err)
	assert.Equal(t, RefByCustomID, ref.Kind())
	assert.Equal(t, "AB12CD", ref.CustomID())

	ref, err = ParseRef("", "AB12CD001")
	require.NoError(t, err)
	assert.Equal(t, RefByCustomID, ref.Kind())

	_, err = ParseRef("id", "AB12CD")
	assert.Error(t, err)
	_, err = ParseRef("custom_id", "")
	assert.Error(t, err)
	_, err = ParseRef("slug", "x")
	assert.Error(t, err)
}

func TestEntityRef_ZeroValue(t *testing.T) {
	var ref EntityRef
	assert.True(t, ref.IsZero())
	assert.Equal(t, "none", ref.String())
	assert.False(t, ByCustomID("AB12CD").IsZero())
}
