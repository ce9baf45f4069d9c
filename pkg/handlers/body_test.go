package handlers

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, raw string) body {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var b map[string]interface{}
	require.NoError(t, dec.Decode(&b))
	return body(b)
}

func TestBodyIDTriState(t *testing.T) {
	keys := []string{"parentSubspaceId", "parent_subspace_id"}

	id, present, err := decodeBody(t, `{}`).id(keys...)
	require.NoError(t, err)
	assert.False(t, present)
	assert.Nil(t, id)

	id, present, err = decodeBody(t, `{"parentSubspaceId":null}`).id(keys...)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Nil(t, id)

	id, present, err = decodeBody(t, `{"parentSubspaceId":null,"parent_subspace_id":"4"}`).id(keys...)
	require.NoError(t, err)
	assert.True(t, present)
	require.NotNil(t, id)
	assert.Equal(t, int64(4), *id)

	_, _, err = decodeBody(t, `{"parentSubspaceId":2.5}`).id(keys...)
	assert.Error(t, err)
	_, _, err = decodeBody(t, `{"parentSubspaceId":-1}`).id(keys...)
	assert.Error(t, err)
}

func TestBodyStringAndBool(t *testing.T) {
	b := decodeBody(t, `{"name":"  HR  ","isPublished":"true","visibility":3}`)

	name, err := b.str("name")
	require.NoError(t, err)
	got, err := requiredName(name)
	require.NoError(t, err)
	assert.Equal(t, "HR", got)

	pub, err := b.boolean("isPublished")
	require.NoError(t, err)
	assert.True(t, *pub)

	_, err = b.str("visibility")
	assert.Error(t, err)

	_, err = requiredName(nil)
	assert.Error(t, err)
}
