package cart

import "context"

// Store is the client-local key/value store a ledger persists to. cartID
// scopes the store to one client; Get returns nil, nil for a missing key.
type Store interface {
	Get(ctx context.Context, cartID, key string) ([]byte, error)
	Set(ctx context.Context, cartID, key string, value []byte) error
}
