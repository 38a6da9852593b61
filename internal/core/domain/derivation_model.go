package domain

import "context"

const PuzzleHashLength = 32

// DerivationRecord is the child key derived at Index below a key entry's
// intermediate public key.
type DerivationRecord struct {
	Index      uint32
	PublicKey  []byte
	PuzzleHash [PuzzleHashLength]byte
}

// DerivationRepository is the append-only store of the derivation records of
// one key entry on one network. Indexes are always contiguous starting from 0.
type DerivationRepository interface {
	// Count returns the number of derived records.
	Count(ctx context.Context) (uint32, error)
	IndexOfPublicKey(
		ctx context.Context, publicKey []byte,
	) (index uint32, found bool, err error)
	IndexOfPuzzleHash(
		ctx context.Context, puzzleHash [PuzzleHashLength]byte,
	) (index uint32, found bool, err error)
	PublicKey(ctx context.Context, index uint32) ([]byte, error)
	PuzzleHash(
		ctx context.Context, index uint32,
	) ([PuzzleHashLength]byte, error)
	// DeriveToIndex makes sure records [0, target) exist. It's idempotent and
	// a no-op for targets not greater than Count.
	DeriveToIndex(ctx context.Context, target uint32) error
	// PuzzleHashes returns the puzzle hashes of all records ordered by index.
	PuzzleHashes(ctx context.Context) ([][PuzzleHashLength]byte, error)
	Close() error
}
