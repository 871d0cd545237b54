package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "esim_cart", []byte(`{"items":[]}`)))

	value, err := store.Get(ctx, "esim_cart")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"items":[]}`), value)
}

func TestMemoryStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "key", []byte("one")))
	require.NoError(t, store.Set(ctx, "key", []byte("two")))

	value, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), value)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "key", []byte("value")))
	require.NoError(t, store.Delete(ctx, "key"))

	_, err := store.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Delete(ctx, "key"))
}

func TestMemoryStore_Keys(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, OrderKeyPrefix+"a", []byte("1")))
	require.NoError(t, store.Set(ctx, OrderKeyPrefix+"b", []byte("2")))
	require.NoError(t, store.Set(ctx, CartKey, []byte("3")))

	keys, err := store.Keys(ctx, OrderKeyPrefix)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{OrderKeyPrefix + "a", OrderKeyPrefix + "b"}, keys)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	original := []byte("immutable")
	require.NoError(t, store.Set(ctx, "key", original))
	original[0] = 'X'

	value, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("immutable"), value)

	value[0] = 'Y'
	again, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("immutable"), again)
}
