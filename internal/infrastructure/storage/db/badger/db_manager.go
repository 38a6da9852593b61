package dbbadger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/sage-wallet/sage/internal/core/domain"
	"github.com/sage-wallet/sage/internal/core/ports"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

const valueLogGCInterval = 30 * time.Minute

type storeManager struct {
	baseDbDir string
	deriver   ports.KeyDeriver
	logger    badger.Logger
}

// NewStoreManager returns a DerivationStoreManager that keeps one badger
// database per key and network under <baseDbDir>/<fingerprint>/<network>.
// Databases are held in memory if baseDbDir is empty.
func NewStoreManager(
	baseDbDir string, deriver ports.KeyDeriver, logger badger.Logger,
) ports.DerivationStoreManager {
	return &storeManager{baseDbDir, deriver, logger}
}

func (m *storeManager) Open(
	ctx context.Context, fingerprint uint32, network, intermediateKey string,
) (domain.DerivationRepository, error) {
	if !isValidDirName(network) {
		return nil, ErrInvalidNetworkName
	}

	var dbDir string
	if len(m.baseDbDir) > 0 {
		dbDir = filepath.Join(m.baseDbDir, fingerprintDir(fingerprint), network)
	}

	store, err := createDb(dbDir, m.logger)
	if err != nil {
		return nil, fmt.Errorf("opening derivation db: %w", err)
	}

	return newDerivationRepositoryImpl(store, m.deriver, intermediateKey), nil
}

func (m *storeManager) Remove(ctx context.Context, fingerprint uint32) error {
	if len(m.baseDbDir) <= 0 {
		return nil
	}
	if err := os.RemoveAll(
		filepath.Join(m.baseDbDir, fingerprintDir(fingerprint)),
	); err != nil {
		return fmt.Errorf("removing derivation db: %w", err)
	}
	return nil
}

func fingerprintDir(fingerprint uint32) string {
	return strconv.FormatUint(uint64(fingerprint), 10)
}

func isValidDirName(name string) bool {
	return len(name) > 0 && name != "." && name != ".." &&
		filepath.Base(name) == name
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}

// runValueLogGC periodically garbage collects the value log of an on-disk db
// until done is closed.
func runValueLogGC(db *badgerhold.Store, done <-chan struct{}) {
	ticker := time.NewTicker(valueLogGCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := db.Badger().RunValueLogGC(0.5); err != nil &&
				err != badger.ErrNoRewrite {
				log.Error(err)
			}
		}
	}
}
