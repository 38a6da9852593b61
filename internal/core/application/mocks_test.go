package application_test

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/sage-wallet/sage/internal/core/domain"
	"github.com/sage-wallet/sage/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// **** Key repository ****

type inMemoryKeyRepository struct {
	lock     sync.Mutex
	keys     *domain.KeyList
	writes   int
	writeErr error
}

func newInMemoryKeyRepository(keys *domain.KeyList) *inMemoryKeyRepository {
	if keys == nil {
		keys = domain.NewKeyList()
	}
	return &inMemoryKeyRepository{keys: keys.Clone()}
}

func (r *inMemoryKeyRepository) Read(ctx context.Context) (*domain.KeyList, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.keys.Clone(), nil
}

func (r *inMemoryKeyRepository) Write(
	ctx context.Context, keys *domain.KeyList,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.writeErr != nil {
		return r.writeErr
	}
	r.keys = keys.Clone()
	r.writes++
	return nil
}

func (r *inMemoryKeyRepository) stored() (*domain.KeyList, int) {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.keys.Clone(), r.writes
}

func (r *inMemoryKeyRepository) failWrites(err error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.writeErr = err
}

// **** Network repository ****

type inMemoryNetworkRepository struct {
	lock   sync.Mutex
	config *domain.NetworkConfig
}

func (r *inMemoryNetworkRepository) GetOrCreate(
	ctx context.Context,
) (*domain.NetworkConfig, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.config == nil {
		r.config = domain.DefaultNetworkConfig()
	}
	return r.config.Clone(), nil
}

func (r *inMemoryNetworkRepository) Write(
	ctx context.Context, config *domain.NetworkConfig,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.config = config.Clone()
	return nil
}

type mockNetworkRepository struct {
	mock.Mock
}

func (m *mockNetworkRepository) GetOrCreate(
	ctx context.Context,
) (*domain.NetworkConfig, error) {
	args := m.Called(ctx)

	var res *domain.NetworkConfig
	if a := args.Get(0); a != nil {
		res = a.(*domain.NetworkConfig)
	}
	return res, args.Error(1)
}

func (m *mockNetworkRepository) Write(
	ctx context.Context, config *domain.NetworkConfig,
) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// **** Key deriver ****

type fakeDeriver struct{}

func (d fakeDeriver) IntermediateKey(rootPublicKey string) (string, error) {
	if len(rootPublicKey) <= 0 {
		return "", fmt.Errorf("empty root key")
	}
	return rootPublicKey + "/12381/8444/2", nil
}

func (d fakeDeriver) DeriveChild(
	intermediateKey string, index uint32,
) ([]byte, error) {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, index)
	hash := sha256.Sum256(append([]byte(intermediateKey), buf...))
	return append([]byte{0x03}, hash[:]...), nil
}

func (d fakeDeriver) PuzzleHash(
	publicKey []byte,
) ([domain.PuzzleHashLength]byte, error) {
	return sha256.Sum256(publicKey), nil
}

// **** Derivation stores ****

type fakeStore struct {
	deriver         ports.KeyDeriver
	intermediateKey string

	lock      sync.Mutex
	records   []domain.DerivationRecord
	closed    bool
	deriveErr error
}

func (s *fakeStore) Count(ctx context.Context) (uint32, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return uint32(len(s.records)), nil
}

func (s *fakeStore) IndexOfPublicKey(
	ctx context.Context, publicKey []byte,
) (uint32, bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, r := range s.records {
		if string(r.PublicKey) == string(publicKey) {
			return r.Index, true, nil
		}
	}
	return 0, false, nil
}

func (s *fakeStore) IndexOfPuzzleHash(
	ctx context.Context, puzzleHash [domain.PuzzleHashLength]byte,
) (uint32, bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, r := range s.records {
		if r.PuzzleHash == puzzleHash {
			return r.Index, true, nil
		}
	}
	return 0, false, nil
}

func (s *fakeStore) PublicKey(ctx context.Context, index uint32) ([]byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if int(index) >= len(s.records) {
		return nil, domain.ErrDerivationNotFound
	}
	return s.records[index].PublicKey, nil
}

func (s *fakeStore) PuzzleHash(
	ctx context.Context, index uint32,
) ([domain.PuzzleHashLength]byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if int(index) >= len(s.records) {
		return [domain.PuzzleHashLength]byte{}, domain.ErrDerivationNotFound
	}
	return s.records[index].PuzzleHash, nil
}

func (s *fakeStore) DeriveToIndex(ctx context.Context, target uint32) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}
	if s.deriveErr != nil {
		return s.deriveErr
	}
	for i := uint32(len(s.records)); i < target; i++ {
		publicKey, err := s.deriver.DeriveChild(s.intermediateKey, i)
		if err != nil {
			return err
		}
		puzzleHash, err := s.deriver.PuzzleHash(publicKey)
		if err != nil {
			return err
		}
		s.records = append(s.records, domain.DerivationRecord{
			Index: i, PublicKey: publicKey, PuzzleHash: puzzleHash,
		})
	}
	return nil
}

func (s *fakeStore) PuzzleHashes(
	ctx context.Context,
) ([][domain.PuzzleHashLength]byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	puzzleHashes := make([][domain.PuzzleHashLength]byte, 0, len(s.records))
	for _, r := range s.records {
		puzzleHashes = append(puzzleHashes, r.PuzzleHash)
	}
	return puzzleHashes, nil
}

func (s *fakeStore) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.closed = true
	return nil
}

func (s *fakeStore) isClosed() bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.closed
}

// fakeStoreManager keeps the stores in memory across Open calls the same way
// they would persist on disk.
type fakeStoreManager struct {
	deriver ports.KeyDeriver

	lock      sync.Mutex
	stores    map[string]*fakeStore
	opens     int
	openErr   error
	deriveErr error
}

func newFakeStoreManager() *fakeStoreManager {
	return &fakeStoreManager{
		deriver: fakeDeriver{},
		stores:  make(map[string]*fakeStore),
	}
}

func (m *fakeStoreManager) Open(
	ctx context.Context, fingerprint uint32, network, intermediateKey string,
) (domain.DerivationRepository, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.openErr != nil {
		return nil, m.openErr
	}
	m.opens++

	key := storeKey(fingerprint, network)
	store, ok := m.stores[key]
	if !ok {
		store = &fakeStore{deriver: m.deriver, intermediateKey: intermediateKey}
		m.stores[key] = store
	}
	store.lock.Lock()
	store.closed = false
	store.deriveErr = m.deriveErr
	store.lock.Unlock()
	return store, nil
}

func (m *fakeStoreManager) Remove(ctx context.Context, fingerprint uint32) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	prefix := fmt.Sprintf("%d/", fingerprint)
	for key, store := range m.stores {
		if strings.HasPrefix(key, prefix) {
			if !store.isClosed() {
				return fmt.Errorf("store %s is still open", key)
			}
			delete(m.stores, key)
		}
	}
	return nil
}

func (m *fakeStoreManager) store(
	fingerprint uint32, network string,
) (*fakeStore, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()

	store, ok := m.stores[storeKey(fingerprint, network)]
	return store, ok
}

func (m *fakeStoreManager) hasStores(fingerprint uint32) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	prefix := fmt.Sprintf("%d/", fingerprint)
	for key := range m.stores {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func (m *fakeStoreManager) openCount() int {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.opens
}

func (m *fakeStoreManager) setOpenErr(err error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.openErr = err
}

func storeKey(fingerprint uint32, network string) string {
	return fmt.Sprintf("%d/%s", fingerprint, network)
}
