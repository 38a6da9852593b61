package domain

import "errors"

var (
	// ErrEmptyKeyName is returned when importing or renaming a key with an
	// empty display name
	ErrEmptyKeyName = errors.New("key name must not be empty")
	// ErrMissingPublicKey is returned when adding a key entry without its root
	// public key
	ErrMissingPublicKey = errors.New("key entry public key must not be empty")
	// ErrDuplicateFingerprint is returned when adding a key whose fingerprint
	// is already in the vault
	ErrDuplicateFingerprint = errors.New("a key with the same fingerprint already exists")
	// ErrKeyNotFound is returned when selecting a key not present in the vault
	ErrKeyNotFound = errors.New("key not found")
	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	// ErrInvalidSecretKey ...
	ErrInvalidSecretKey = errors.New("invalid secret key")
	// ErrInvalidPublicKey ...
	ErrInvalidPublicKey = errors.New("invalid public key")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("invalid address")

	// ErrDerivationNotFound is returned when reading an index that has not
	// been derived yet
	ErrDerivationNotFound = errors.New("derivation index not found")

	// ErrUnknownNetwork is returned when selecting a network not present in
	// the network config
	ErrUnknownNetwork = errors.New("unknown network")
	// ErrEmptyNetworkConfig ...
	ErrEmptyNetworkConfig = errors.New("network config must define at least one network")
	// ErrEmptyNetworkName ...
	ErrEmptyNetworkName = errors.New("network name must not be empty")
	// ErrMissingAddressPrefix ...
	ErrMissingAddressPrefix = errors.New("network address prefix must not be empty")
	// ErrInvalidAggSigData is returned if the network signature domain
	// separator is not a 32-byte hex string
	ErrInvalidAggSigData = errors.New("network agg sig data must be a 32-byte hex string")
)
