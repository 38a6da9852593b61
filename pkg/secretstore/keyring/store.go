package keyringsecretstore

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/sage-wallet/sage/pkg/secretstore"
	"github.com/zalando/go-keyring"
)

type keyringSecretStore struct {
	service string
	user    string

	keyMtx sync.Mutex
	key    []byte
}

// NewSecretStore creates an instance of the SecretStore interface backed by
// the OS credential store (macOS Keychain, Secret Service on Linux, Windows
// Credential Manager). The key is identified by the service/user pair.
func NewSecretStore(service, user string) (secretstore.SecretStore, error) {
	if len(service) <= 0 {
		return nil, ErrMissingService
	}
	if len(user) <= 0 {
		return nil, ErrMissingUser
	}
	return &keyringSecretStore{service: service, user: user}, nil
}

// GetOrCreateKey returns the hex-decoded key stored in the credential store.
// If no entry exists, a new random key is generated and stored. The key is
// cached in memory after the first successful call.
func (s *keyringSecretStore) GetOrCreateKey() ([]byte, error) {
	s.keyMtx.Lock()
	defer s.keyMtx.Unlock()

	if s.key == nil {
		key, err := s.getOrCreateKey()
		if err != nil {
			return nil, err
		}
		s.key = key
	}

	key := make([]byte, len(s.key))
	copy(key, s.key)
	return key, nil
}

func (s *keyringSecretStore) getOrCreateKey() ([]byte, error) {
	secret, err := keyring.Get(s.service, s.user)
	if err == nil {
		key, err := hex.DecodeString(secret)
		if err != nil || len(key) != secretstore.KeyLength {
			return nil, secretstore.ErrMalformedKey
		}
		return key, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", secretstore.ErrUnavailable, err)
	}

	key := make([]byte, secretstore.KeyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	if err := keyring.Set(s.service, s.user, hex.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("%w: %s", secretstore.ErrUnavailable, err)
	}
	return key, nil
}
