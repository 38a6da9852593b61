package filestore

import "errors"

var (
	// ErrVaultUnreadable is returned when the vault file exists but can't be
	// decrypted or decoded. The vault must not be treated as empty in this case.
	ErrVaultUnreadable = errors.New("vault file is unreadable")
	// ErrMalformedNetworkConfig is returned when the network config file
	// exists but is not valid.
	ErrMalformedNetworkConfig = errors.New("network config file is malformed")
	// ErrMissingDNSIntroducers ...
	ErrMissingDNSIntroducers = errors.New("missing dns_introducers for network")
)
