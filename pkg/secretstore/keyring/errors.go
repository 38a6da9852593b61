package keyringsecretstore

import (
	"fmt"
)

var (
	// ErrMissingService specifies that the name of the credential store
	// entry's service is required.
	ErrMissingService = fmt.Errorf("missing keyring service name")
	// ErrMissingUser specifies that the name of the credential store entry's
	// user is required.
	ErrMissingUser = fmt.Errorf("missing keyring user name")
)
