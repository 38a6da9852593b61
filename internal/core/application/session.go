package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/sage-wallet/sage/internal/core/domain"
	"github.com/sage-wallet/sage/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// SessionStatus is a snapshot of the session state. Fingerprint and Network
// are meaningful only if LoggedIn is true.
type SessionStatus struct {
	LoggedIn    bool
	Fingerprint uint32
	Network     string
}

// Session owns the derivation store of the logged in key on the active
// network. It's either logged out or bound to exactly one open store.
type Session struct {
	deriver   ports.KeyDeriver
	manager   ports.DerivationStoreManager
	lookahead uint32

	lock        sync.Mutex
	fingerprint uint32
	network     string
	store       domain.DerivationRepository
}

func NewSession(
	deriver ports.KeyDeriver,
	manager ports.DerivationStoreManager,
	lookahead uint32,
) (*Session, error) {
	if lookahead == 0 {
		return nil, ErrNullLookahead
	}
	return &Session{
		deriver:   deriver,
		manager:   manager,
		lookahead: lookahead,
	}, nil
}

// Open binds the session to the store of the given key on the given network
// and eagerly derives the lookahead window. Any previously open store is
// closed first. On failure the session is left logged out.
func (s *Session) Open(
	ctx context.Context, fingerprint uint32, network, rootPublicKey string,
) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.store == nil || s.fingerprint != fingerprint || s.network != network {
		s.close()

		intermediateKey, err := s.deriver.IntermediateKey(rootPublicKey)
		if err != nil {
			return fmt.Errorf("deriving intermediate key: %w", err)
		}
		store, err := s.manager.Open(ctx, fingerprint, network, intermediateKey)
		if err != nil {
			return err
		}
		s.fingerprint, s.network, s.store = fingerprint, network, store
	}

	if err := s.store.DeriveToIndex(ctx, s.lookahead); err != nil {
		s.close()
		return err
	}

	log.WithFields(log.Fields{
		"fingerprint": fingerprint,
		"network":     network,
	}).Info("logged in")
	return nil
}

// Close logs the session out, closing the open store if any.
func (s *Session) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.store != nil {
		s.close()
		log.Info("logged out")
	}
}

func (s *Session) Status() SessionStatus {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.store == nil {
		return SessionStatus{}
	}
	return SessionStatus{
		LoggedIn:    true,
		Fingerprint: s.fingerprint,
		Network:     s.network,
	}
}

// WithStore runs fn with the open store while holding the session, so that
// the store can't be swapped or closed meanwhile.
func (s *Session) WithStore(
	fn func(status SessionStatus, store domain.DerivationRepository) error,
) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.store == nil {
		return ErrNotLoggedIn
	}
	return fn(SessionStatus{
		LoggedIn:    true,
		Fingerprint: s.fingerprint,
		Network:     s.network,
	}, s.store)
}

// RemoveStores discards the stores of the given key on every network. The
// session is logged out first if bound to that key.
func (s *Session) RemoveStores(ctx context.Context, fingerprint uint32) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.store != nil && s.fingerprint == fingerprint {
		s.close()
	}
	return s.manager.Remove(ctx, fingerprint)
}

func (s *Session) close() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.WithError(err).Warn("failed to close derivation store")
	}
	s.fingerprint, s.network, s.store = 0, "", nil
}
