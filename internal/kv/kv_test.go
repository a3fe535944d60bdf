package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	val, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, store.Set(ctx, "k", []byte(`{"a":1}`)))
	val, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), val)

	require.NoError(t, store.Clear(ctx, "k"))
	val, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	in := []byte("snapshot")
	require.NoError(t, store.Set(ctx, "k", in))
	in[0] = 'X'

	out, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("snapshot"), out)

	out[0] = 'Y'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("snapshot"), again)
}
