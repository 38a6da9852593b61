package ports

import "github.com/sage-wallet/sage/internal/core/domain"

// KeyDeriver is the hierarchical derivation capability used to populate the
// derivation stores.
type KeyDeriver interface {
	// IntermediateKey derives the intermediate public key from a key entry's
	// root public key through a fixed unhardened path.
	IntermediateKey(rootPublicKey string) (string, error)
	// DeriveChild returns the child public key at index below the
	// intermediate key.
	DeriveChild(intermediateKey string, index uint32) ([]byte, error)
	// PuzzleHash returns the puzzle hash of a child public key.
	PuzzleHash(publicKey []byte) ([domain.PuzzleHashLength]byte, error)
}
