package domain

import "context"

// KeyRepository is the abstraction for the persistent storage of the vault.
// Read returns an empty list if nothing was stored yet. Write replaces the
// stored list as a whole.
type KeyRepository interface {
	Read(ctx context.Context) (*KeyList, error)
	Write(ctx context.Context, keys *KeyList) error
}
