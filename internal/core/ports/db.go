package ports

import (
	"context"

	"github.com/sage-wallet/sage/internal/core/domain"
)

// DerivationStoreManager interface defines the methods to open the
// derivation store of a key on a network and to discard all the stores of a
// key.
type DerivationStoreManager interface {
	// Open opens, or creates if missing, the store of the given key on the
	// given network. Children are derived below intermediateKey.
	Open(
		ctx context.Context, fingerprint uint32, network, intermediateKey string,
	) (domain.DerivationRepository, error)
	// Remove deletes the stores of the given key on every network. The stores
	// must be closed already.
	Remove(ctx context.Context, fingerprint uint32) error
}
