package storage

import "context"

// Well-known keys. Orders are stored one record per key under OrderKeyPrefix
// followed by the order ID; the cart is a single JSON array under CartKey.
const (
	CartKey        = "esim_cart"
	OrderKeyPrefix = "esim_order_"
)

// Store is a small durable key-value port. The cart store and order service
// only depend on this interface, so the on-device default (SQLite file), the
// in-memory store and the server-backed Postgres store are interchangeable.
type Store interface {
	// Get retrieves the value stored under key. A missing key returns
	// ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists all keys starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases any underlying resources.
	Close() error
}
