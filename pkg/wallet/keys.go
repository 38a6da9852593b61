package wallet

import (
	"encoding/binary"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// RootKey holds the serialized extended keys at the root of a key entry and
// the fingerprint identifying them. SecretKey is empty for watch-only keys.
type RootKey struct {
	SecretKey   string
	PublicKey   string
	Fingerprint uint32
}

// IsWatchOnly returns whether the root key lacks the private part.
func (k RootKey) IsWatchOnly() bool {
	return len(k.SecretKey) <= 0
}

// RootKeyFromMnemonic derives the master extended key pair from the bip39
// seed of the given mnemonic.
func RootKeyFromMnemonic(mnemonic string) (*RootKey, error) {
	seed, err := SeedFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}
	return rootKeyFromExtendedKey(master)
}

// RootKeyFromSecretKey parses a base58 extended private key.
func RootKeyFromSecretKey(xprv string) (*RootKey, error) {
	key, err := parseExtendedKey(xprv)
	if err != nil {
		return nil, err
	}
	if !key.IsPrivate() {
		return nil, ErrNotPrivateKey
	}
	return rootKeyFromExtendedKey(key)
}

// RootKeyFromPublicKey parses a base58 extended public key. The resulting
// root key is watch-only.
func RootKeyFromPublicKey(xpub string) (*RootKey, error) {
	key, err := parseExtendedKey(xpub)
	if err != nil {
		return nil, err
	}
	if key.IsPrivate() {
		return nil, ErrNotPublicKey
	}
	return rootKeyFromExtendedKey(key)
}

// Fingerprint returns the 32-bit identifier of a public key: the first four
// bytes of the hash160 of its compressed serialization.
func Fingerprint(pubkey *btcec.PublicKey) uint32 {
	hash := btcutil.Hash160(pubkey.SerializeCompressed())
	return binary.BigEndian.Uint32(hash[:4])
}

// IntermediatePublicKey walks the given unhardened path starting from the
// root extended public key.
func IntermediatePublicKey(
	rootPublicKey string, path DerivationPath,
) (*hdkeychain.ExtendedKey, error) {
	if len(path) <= 0 {
		return nil, ErrNullDerivationPath
	}
	if !path.IsUnhardened() {
		return nil, ErrHardenedDerivationPath
	}

	hdNode, err := parseExtendedKey(rootPublicKey)
	if err != nil {
		return nil, err
	}
	if hdNode.IsPrivate() {
		if hdNode, err = hdNode.Neuter(); err != nil {
			return nil, err
		}
	}
	for _, step := range path {
		hdNode, err = hdNode.Derive(step)
		if err != nil {
			return nil, err
		}
	}
	return hdNode, nil
}

// DeriveChildPublicKey returns the compressed public key at the unhardened
// index below the given extended key.
func DeriveChildPublicKey(
	parent *hdkeychain.ExtendedKey, index uint32,
) ([]byte, error) {
	if parent == nil {
		return nil, ErrNullExtendedKey
	}
	child, err := parent.Derive(index)
	if err != nil {
		return nil, err
	}
	pubkey, err := child.ECPubKey()
	if err != nil {
		return nil, err
	}
	return pubkey.SerializeCompressed(), nil
}

func rootKeyFromExtendedKey(key *hdkeychain.ExtendedKey) (*RootKey, error) {
	var secretKey string
	xpub := key
	if key.IsPrivate() {
		secretKey = key.String()

		var err error
		if xpub, err = key.Neuter(); err != nil {
			return nil, err
		}
	}

	pubkey, err := xpub.ECPubKey()
	if err != nil {
		return nil, err
	}

	return &RootKey{
		SecretKey:   secretKey,
		PublicKey:   xpub.String(),
		Fingerprint: Fingerprint(pubkey),
	}, nil
}

func parseExtendedKey(str string) (*hdkeychain.ExtendedKey, error) {
	str = strings.TrimSpace(str)
	if len(str) <= 0 {
		return nil, ErrNullExtendedKey
	}
	key, err := hdkeychain.NewKeyFromString(str)
	if err != nil {
		return nil, ErrInvalidExtendedKey
	}
	return key, nil
}
