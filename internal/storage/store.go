package storage

import "context"

// ObjectStore is the contract for the durable content store. Put never
// overwrites: writing to an existing key fails with domain.ErrObjectExists
// so a partial-failure retry can never clobber another user's artifact.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
