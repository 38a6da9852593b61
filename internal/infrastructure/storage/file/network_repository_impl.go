package filestore

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/sage-wallet/sage/internal/core/domain"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const networkFilePerm = 0644

type networkConfig struct {
	Networks      map[string]network `yaml:"networks"`
	ActiveNetwork string             `yaml:"active_network"`
}

// DNSIntroducers is a pointer to tell an absent field from an empty list.
type network struct {
	DNSIntroducers *[]string `yaml:"dns_introducers"`
	AddressPrefix  string   `yaml:"address_prefix"`
	AggSigData     string   `yaml:"agg_sig_data"`
}

type networkRepositoryImpl struct {
	path string
	lock sync.Mutex
}

// NewNetworkRepositoryImpl returns a NetworkRepository backed by a yaml file
// that users can edit by hand.
func NewNetworkRepositoryImpl(path string) domain.NetworkRepository {
	return &networkRepositoryImpl{path: path}
}

func (r *networkRepositoryImpl) GetOrCreate(
	ctx context.Context,
) (*domain.NetworkConfig, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}

		config := domain.DefaultNetworkConfig()
		if err := r.write(config); err != nil {
			return nil, err
		}
		log.WithField("path", r.path).Info("created default network config")
		return config, nil
	}

	var cfg networkConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedNetworkConfig, err)
	}

	config, err := mapInfraNetworkConfigToDomainNetworkConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedNetworkConfig, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedNetworkConfig, err)
	}
	return config, nil
}

func (r *networkRepositoryImpl) Write(
	ctx context.Context, config *domain.NetworkConfig,
) error {
	if err := config.Validate(); err != nil {
		return err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	return r.write(config)
}

func (r *networkRepositoryImpl) write(config *domain.NetworkConfig) error {
	data, err := yaml.Marshal(mapDomainNetworkConfigToInfraNetworkConfig(config))
	if err != nil {
		return err
	}
	if err := writeFileAtomic(r.path, data, networkFilePerm); err != nil {
		return fmt.Errorf("writing network config file: %w", err)
	}
	return nil
}

func mapDomainNetworkConfigToInfraNetworkConfig(
	config *domain.NetworkConfig,
) networkConfig {
	cfg := networkConfig{
		Networks:      make(map[string]network, len(config.Networks)),
		ActiveNetwork: config.ActiveNetwork,
	}
	for name, n := range config.Networks {
		introducers := n.DNSIntroducers
		if introducers == nil {
			introducers = []string{}
		}
		cfg.Networks[name] = network{
			DNSIntroducers: &introducers,
			AddressPrefix:  n.AddressPrefix,
			AggSigData:     n.AggSigData,
		}
	}
	return cfg
}

func mapInfraNetworkConfigToDomainNetworkConfig(
	cfg networkConfig,
) (*domain.NetworkConfig, error) {
	config := &domain.NetworkConfig{
		Networks:      make(map[string]domain.Network, len(cfg.Networks)),
		ActiveNetwork: cfg.ActiveNetwork,
	}
	for name, n := range cfg.Networks {
		if n.DNSIntroducers == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingDNSIntroducers, name)
		}
		introducers := *n.DNSIntroducers
		if introducers == nil {
			introducers = []string{}
		}
		config.Networks[name] = domain.Network{
			DNSIntroducers: introducers,
			AddressPrefix:  n.AddressPrefix,
			AggSigData:     n.AggSigData,
		}
	}
	return config, nil
}
