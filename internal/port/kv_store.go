package port

import "context"

type KeyValueStore interface {
	// Get returns the value stored under key; found is false when the key is absent
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, fully overwriting any prior value
	Set(ctx context.Context, key, value string) error

	// Remove deletes key; removing an absent key is not an error
	Remove(ctx context.Context, key string) error
}
