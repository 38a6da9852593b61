package application

import "errors"

var (
	// ErrNotLoggedIn is returned by operations that require an active session
	ErrNotLoggedIn = errors.New("no key is logged in")
	// ErrNullLookahead ...
	ErrNullLookahead = errors.New("derivation lookahead must be greater than 0")
)
