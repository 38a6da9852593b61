package dbbadger

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/sage-wallet/sage/internal/core/domain"
	"github.com/sage-wallet/sage/internal/core/ports"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

// derivationBatchSize is the max number of records inserted within a single
// db transaction by DeriveToIndex.
const derivationBatchSize = 1000

type derivationRepositoryImpl struct {
	store           *badgerhold.Store
	deriver         ports.KeyDeriver
	intermediateKey string

	lock      sync.Mutex
	closed    bool
	gcDone    chan struct{}
	closeOnce sync.Once
}

func newDerivationRepositoryImpl(
	store *badgerhold.Store, deriver ports.KeyDeriver, intermediateKey string,
) *derivationRepositoryImpl {
	repo := &derivationRepositoryImpl{
		store:           store,
		deriver:         deriver,
		intermediateKey: intermediateKey,
		gcDone:          make(chan struct{}),
	}
	if !store.Badger().Opts().InMemory {
		go runValueLogGC(store, repo.gcDone)
	}
	return repo
}

func (r *derivationRepositoryImpl) Count(ctx context.Context) (uint32, error) {
	count, err := r.store.Count(&Derivation{}, nil)
	if err != nil {
		return 0, err
	}
	return uint32(count), nil
}

func (r *derivationRepositoryImpl) IndexOfPublicKey(
	ctx context.Context, publicKey []byte,
) (uint32, bool, error) {
	query := badgerhold.Where("PublicKey").Eq(hex.EncodeToString(publicKey)).
		Index("PublicKey")
	return r.findIndex(query)
}

func (r *derivationRepositoryImpl) IndexOfPuzzleHash(
	ctx context.Context, puzzleHash [domain.PuzzleHashLength]byte,
) (uint32, bool, error) {
	query := badgerhold.Where("PuzzleHash").Eq(hex.EncodeToString(puzzleHash[:])).
		Index("PuzzleHash")
	return r.findIndex(query)
}

func (r *derivationRepositoryImpl) PublicKey(
	ctx context.Context, index uint32,
) ([]byte, error) {
	record, err := r.getDerivation(index)
	if err != nil {
		return nil, err
	}
	return record.PublicKey, nil
}

func (r *derivationRepositoryImpl) PuzzleHash(
	ctx context.Context, index uint32,
) ([domain.PuzzleHashLength]byte, error) {
	record, err := r.getDerivation(index)
	if err != nil {
		return [domain.PuzzleHashLength]byte{}, err
	}
	return record.PuzzleHash, nil
}

func (r *derivationRepositoryImpl) PuzzleHashes(
	ctx context.Context,
) ([][domain.PuzzleHashLength]byte, error) {
	var derivations []Derivation
	query := badgerhold.Where("Index").Ge(uint32(0)).SortBy("Index")
	if err := r.store.Find(&derivations, query); err != nil {
		return nil, err
	}

	puzzleHashes := make([][domain.PuzzleHashLength]byte, 0, len(derivations))
	for _, d := range derivations {
		puzzleHash, err := decodePuzzleHash(d.PuzzleHash)
		if err != nil {
			return nil, fmt.Errorf("decoding puzzle hash %d: %w", d.Index, err)
		}
		puzzleHashes = append(puzzleHashes, puzzleHash)
	}
	return puzzleHashes, nil
}

// DeriveToIndex derives and stores the records in range [Count, target).
// Records are committed in batches of contiguous indexes so that an
// interrupted call never leaves gaps. Indexes already present are skipped.
func (r *derivationRepositoryImpl) DeriveToIndex(
	ctx context.Context, target uint32,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.closed {
		return ErrStoreClosed
	}

	count, err := r.Count(ctx)
	if err != nil {
		return err
	}
	if target <= count {
		return nil
	}

	for start := uint64(count); start < uint64(target); start += derivationBatchSize {
		end := uint64(target)
		if end-start > derivationBatchSize {
			end = start + derivationBatchSize
		}
		if err := r.deriveRange(uint32(start), uint32(end)); err != nil {
			return err
		}
	}

	log.WithFields(log.Fields{
		"from": count,
		"to":   target,
	}).Debug("derived new keys")
	return nil
}

func (r *derivationRepositoryImpl) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.lock.Lock()
		defer r.lock.Unlock()

		r.closed = true
		close(r.gcDone)
		err = r.store.Close()
	})
	return err
}

func (r *derivationRepositoryImpl) deriveRange(start, end uint32) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		for i := start; i < end; i++ {
			record, err := r.derive(i)
			if err != nil {
				return err
			}
			if err := r.store.TxInsert(
				tx, i, MapDomainDerivationToInfraDerivation(*record),
			); err != nil {
				if err != badgerhold.ErrKeyExists {
					return err
				}
			}
		}
		return nil
	})
}

func (r *derivationRepositoryImpl) derive(
	index uint32,
) (*domain.DerivationRecord, error) {
	publicKey, err := r.deriver.DeriveChild(r.intermediateKey, index)
	if err != nil {
		return nil, fmt.Errorf("deriving child key %d: %w", index, err)
	}
	puzzleHash, err := r.deriver.PuzzleHash(publicKey)
	if err != nil {
		return nil, fmt.Errorf("computing puzzle hash %d: %w", index, err)
	}
	return &domain.DerivationRecord{
		Index:      index,
		PublicKey:  publicKey,
		PuzzleHash: puzzleHash,
	}, nil
}

func (r *derivationRepositoryImpl) getDerivation(
	index uint32,
) (*domain.DerivationRecord, error) {
	var derivation Derivation
	if err := r.store.Get(index, &derivation); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrDerivationNotFound
		}
		return nil, err
	}
	return MapInfraDerivationToDomainDerivation(derivation)
}

func (r *derivationRepositoryImpl) findIndex(
	query *badgerhold.Query,
) (uint32, bool, error) {
	var derivations []Derivation
	if err := r.store.Find(&derivations, query.Limit(1)); err != nil {
		return 0, false, err
	}
	if len(derivations) <= 0 {
		return 0, false, nil
	}
	return derivations[0].Index, true, nil
}
