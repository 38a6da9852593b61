package secretstore

import "errors"

// KeyLength is the length in bytes of the symmetric key held by a
// SecretStore.
const KeyLength = 32

var (
	// ErrUnavailable is returned when the underlying credential store can't
	// be read or written. Callers must not fall back to an ephemeral key
	// since data encrypted with it would be unreadable after a restart.
	ErrUnavailable = errors.New("secret store unavailable")
	// ErrMalformedKey is returned when the stored secret is not a valid
	// encoding of a KeyLength bytes key.
	ErrMalformedKey = errors.New("stored encryption key is malformed")
)

// SecretStore interface defines the methods for retrieving the single
// symmetric key of an installation from a secure storage.
type SecretStore interface {
	// GetOrCreateKey returns the stored key, creating and storing a new random
	// one if none exists yet.
	GetOrCreateKey() (key []byte, err error)
}
