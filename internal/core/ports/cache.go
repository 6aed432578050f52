package ports

import "context"

// ClientStatePersister stores serialized client state. Load returns
// domain.ErrNotFound for keys that were never written.
type ClientStatePersister interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
