package dbbadger

import "errors"

var (
	// ErrInvalidNetworkName is returned when the network name can't be used as
	// a directory name for the derivation store
	ErrInvalidNetworkName = errors.New("invalid network name for derivation store")
	// ErrStoreClosed ...
	ErrStoreClosed = errors.New("derivation store is closed")
)
