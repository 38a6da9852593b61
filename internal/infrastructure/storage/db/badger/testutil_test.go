package dbbadger_test

import (
	"crypto/sha256"
	"encoding/binary"
	"sync/atomic"

	"github.com/sage-wallet/sage/internal/core/domain"
)

const testIntermediateKey = "intermediate"

// fakeDeriver derives deterministic 33-byte keys by hashing the parent key
// and the index. It counts the children derived.
type fakeDeriver struct {
	derived uint64
}

func (d *fakeDeriver) IntermediateKey(rootPublicKey string) (string, error) {
	return rootPublicKey + "/intermediate", nil
}

func (d *fakeDeriver) DeriveChild(
	intermediateKey string, index uint32,
) ([]byte, error) {
	atomic.AddUint64(&d.derived, 1)
	return fakeChild(intermediateKey, index), nil
}

func (d *fakeDeriver) PuzzleHash(
	publicKey []byte,
) ([domain.PuzzleHashLength]byte, error) {
	return sha256.Sum256(publicKey), nil
}

func (d *fakeDeriver) derivedCount() uint64 {
	return atomic.LoadUint64(&d.derived)
}

func fakeChild(intermediateKey string, index uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, index)
	hash := sha256.Sum256(append([]byte(intermediateKey), buf...))
	return append([]byte{0x02}, hash[:]...)
}

func fakePuzzleHash(intermediateKey string, index uint32) [domain.PuzzleHashLength]byte {
	return sha256.Sum256(fakeChild(intermediateKey, index))
}
