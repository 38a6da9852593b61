package wallet

import (
	"errors"
)

var (
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("text to encrypt must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher to decrypt must not be null")
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic must not be null")
	// ErrNullExtendedKey ...
	ErrNullExtendedKey = errors.New("extended key must not be null")

	// ErrInvalidKeyLength ...
	ErrInvalidKeyLength = errors.New("encryption key must be 32 bytes long")
	// ErrInvalidNonceLength ...
	ErrInvalidNonceLength = errors.New("nonce must be 12 bytes long")
	// ErrDecryptionFailed is returned when the authentication tag of a cypher
	// does not verify, either because of a wrong key or of corrupted data.
	ErrDecryptionFailed = errors.New("decryption failed, authentication tag mismatch")
	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New(
		"entropy size must be a multiple of 32 in the range [128,256]",
	)
	// ErrInvalidDerivationPath ...
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	// ErrHardenedDerivationPath ...
	ErrHardenedDerivationPath = errors.New(
		"public derivation path must not contain hardened elements",
	)
	// ErrInvalidExtendedKey ...
	ErrInvalidExtendedKey = errors.New("extended key is not valid base58")
	// ErrNotPrivateKey ...
	ErrNotPrivateKey = errors.New("extended key is not a private key")
	// ErrNotPublicKey ...
	ErrNotPublicKey = errors.New("extended key is not a public key")
	// ErrInvalidPublicKey ...
	ErrInvalidPublicKey = errors.New("public key must be a 33 bytes compressed key")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("address must be a valid bech32m string")
	// ErrInvalidAddressPrefix ...
	ErrInvalidAddressPrefix = errors.New("address prefix does not match network")
	// ErrNullAddressPrefix ...
	ErrNullAddressPrefix = errors.New("address prefix must not be null")

	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must not start or end with a '/' and " +
			"can optionally start with 'm/' for absolute paths",
	)
)
