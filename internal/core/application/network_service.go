package application

import (
	"context"
	"sync"

	"github.com/sage-wallet/sage/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

// NetworkService holds the network registry and the active network.
type NetworkService struct {
	repository domain.NetworkRepository

	lock   sync.RWMutex
	config *domain.NetworkConfig
}

// NewNetworkService loads the network config, creating the default one if
// none exists yet.
func NewNetworkService(
	ctx context.Context, repository domain.NetworkRepository,
) (*NetworkService, error) {
	config, err := repository.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	return &NetworkService{repository: repository, config: config}, nil
}

// Config returns a copy of the network config.
func (s *NetworkService) Config() *domain.NetworkConfig {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.config.Clone()
}

func (s *NetworkService) ActiveNetwork() string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.config.ActiveNetwork
}

func (s *NetworkService) Network(name string) (domain.Network, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	n, ok := s.config.Networks[name]
	n.DNSIntroducers = append([]string{}, n.DNSIntroducers...)
	return n, ok
}

// SetActive persists the given network as the active one. It fails with
// domain.ErrUnknownNetwork if the network is not registered.
func (s *NetworkService) SetActive(ctx context.Context, name string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.config.ActiveNetwork == name {
		return nil
	}

	config := s.config.Clone()
	if err := config.SetActive(name); err != nil {
		return err
	}
	if err := s.repository.Write(ctx, config); err != nil {
		return err
	}
	s.config = config

	log.WithField("network", name).Info("switched active network")
	return nil
}
