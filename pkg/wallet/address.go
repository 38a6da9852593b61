package wallet

import (
	"crypto/sha256"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// PuzzleHashLength is the length in bytes of a puzzle hash.
const PuzzleHashLength = 32

// PuzzleHash returns the 32 bytes identifier that receives funds for the
// given compressed public key.
func PuzzleHash(publicKey []byte) ([PuzzleHashLength]byte, error) {
	if len(publicKey) != btcec.PubKeyBytesLenCompressed {
		return [PuzzleHashLength]byte{}, ErrInvalidPublicKey
	}
	if _, err := btcec.ParsePubKey(publicKey); err != nil {
		return [PuzzleHashLength]byte{}, ErrInvalidPublicKey
	}
	return sha256.Sum256(publicKey), nil
}

// EncodeAddress encodes a puzzle hash as a bech32m address with the given
// human readable prefix.
func EncodeAddress(puzzleHash [PuzzleHashLength]byte, prefix string) (string, error) {
	if len(prefix) <= 0 {
		return "", ErrNullAddressPrefix
	}
	data, err := bech32.ConvertBits(puzzleHash[:], 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.EncodeM(prefix, data)
}

// DecodeAddress decodes a bech32m address and checks that its prefix matches
// the expected one.
func DecodeAddress(address, prefix string) ([PuzzleHashLength]byte, error) {
	var puzzleHash [PuzzleHashLength]byte

	hrp, data, version, err := bech32.DecodeGeneric(strings.TrimSpace(address))
	if err != nil || version != bech32.VersionM {
		return puzzleHash, ErrInvalidAddress
	}
	if hrp != strings.ToLower(prefix) {
		return puzzleHash, ErrInvalidAddressPrefix
	}

	decoded, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil || len(decoded) != PuzzleHashLength {
		return puzzleHash, ErrInvalidAddress
	}
	copy(puzzleHash[:], decoded)
	return puzzleHash, nil
}
