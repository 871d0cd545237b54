package integration

import (
	"context"
	"testing"

	"waw-esim/internal/catalog"
	"waw-esim/internal/model"
	"waw-esim/internal/order"
	"waw-esim/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	ctx := context.Background()

	store, err := storage.NewPostgresStore(ctx, testDB.Pool, zerolog.Nop())
	require.NoError(t, err)

	t.Run("RoundTrip", func(t *testing.T) {
		defer CleanupDB(t, testDB.Pool)

		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)

		require.NoError(t, store.Set(ctx, storage.CartKey, []byte(`{"items":[]}`)))

		value, err := store.Get(ctx, storage.CartKey)
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"items":[]}`), value)
	})

	t.Run("Upsert", func(t *testing.T) {
		defer CleanupDB(t, testDB.Pool)

		require.NoError(t, store.Set(ctx, "key", []byte("one")))
		require.NoError(t, store.Set(ctx, "key", []byte("two")))

		value, err := store.Get(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, []byte("two"), value)
	})

	t.Run("DeleteAndKeys", func(t *testing.T) {
		defer CleanupDB(t, testDB.Pool)

		require.NoError(t, store.Set(ctx, storage.OrderKeyPrefix+"a", []byte("1")))
		require.NoError(t, store.Set(ctx, storage.OrderKeyPrefix+"b", []byte("2")))
		require.NoError(t, store.Set(ctx, storage.CartKey, []byte("3")))

		keys, err := store.Keys(ctx, storage.OrderKeyPrefix)
		require.NoError(t, err)
		assert.Equal(t, []string{storage.OrderKeyPrefix + "a", storage.OrderKeyPrefix + "b"}, keys)

		require.NoError(t, store.Delete(ctx, storage.OrderKeyPrefix+"a"))

		_, err = store.Get(ctx, storage.OrderKeyPrefix+"a")
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	})
}

func TestOrderService_PostgresBacked_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	ctx := context.Background()

	store, err := storage.NewPostgresStore(ctx, testDB.Pool, zerolog.Nop())
	require.NoError(t, err)
	defer CleanupDB(t, testDB.Pool)

	provider := catalog.NewStaticProvider(0, zerolog.Nop())
	svc := order.NewService(provider, store, 0, nil, zerolog.Nop())

	customer := model.CustomerInfo{
		FirstName:   "Awa",
		LastName:    "Diop",
		Email:       "awa.diop@example.sn",
		Phone:       "+221770001122",
		Country:     model.DefaultCountry,
		AcceptTerms: true,
	}

	result, err := svc.Create(ctx, "umrah-sa-1gb", customer, model.ActivationInfo{DeviceType: model.DeviceSmartphone}, "wave")
	require.NoError(t, err)
	require.NotNil(t, result.Order)
	assert.Equal(t, model.OrderStatusPaid, result.Order.Status)

	// A fresh service over the same pool sees the persisted order.
	fresh := order.NewService(provider, store, 0, nil, zerolog.Nop())
	loaded, err := fresh.Get(ctx, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Order.ID, loaded.ID)
	assert.Equal(t, result.Order.ActivationCode, loaded.ActivationCode)
	assert.Equal(t, model.PaymentStatusCompleted, loaded.PaymentStatus)

	activated, err := fresh.Activate(ctx, loaded.ID, model.ActivationInfo{})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusActivated, activated.Status)
	require.NotNil(t, activated.ExpiresAt)
}
