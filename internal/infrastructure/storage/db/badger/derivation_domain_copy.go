package dbbadger

import (
	"encoding/hex"

	"github.com/sage-wallet/sage/internal/core/domain"
)

// Derivation is the stored version of domain.DerivationRecord. Keys are hex
// encoded so that they can be indexed and compared as strings.
type Derivation struct {
	Index      uint32
	PublicKey  string `badgerhold:"index"`
	PuzzleHash string `badgerhold:"index"`
}

func MapDomainDerivationToInfraDerivation(
	record domain.DerivationRecord,
) *Derivation {
	return &Derivation{
		Index:      record.Index,
		PublicKey:  hex.EncodeToString(record.PublicKey),
		PuzzleHash: hex.EncodeToString(record.PuzzleHash[:]),
	}
}

func MapInfraDerivationToDomainDerivation(
	d Derivation,
) (*domain.DerivationRecord, error) {
	publicKey, err := hex.DecodeString(d.PublicKey)
	if err != nil {
		return nil, err
	}
	puzzleHash, err := decodePuzzleHash(d.PuzzleHash)
	if err != nil {
		return nil, err
	}
	return &domain.DerivationRecord{
		Index:      d.Index,
		PublicKey:  publicKey,
		PuzzleHash: puzzleHash,
	}, nil
}

func decodePuzzleHash(str string) ([domain.PuzzleHashLength]byte, error) {
	var puzzleHash [domain.PuzzleHashLength]byte
	buf, err := hex.DecodeString(str)
	if err != nil {
		return puzzleHash, err
	}
	if len(buf) != domain.PuzzleHashLength {
		return puzzleHash, hex.ErrLength
	}
	copy(puzzleHash[:], buf)
	return puzzleHash, nil
}
