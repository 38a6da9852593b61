package domain

import (
	"context"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

const (
	MainnetNetwork   = "mainnet"
	SimulatorNetwork = "simulator0"

	defaultAddressPrefix = "xch"
	defaultAggSigData    = "ccd5bb71183532bff220ba46c268991a3ff07eb358e8255a65c30a2dce0e5fbb"
	aggSigDataLength     = 32
)

// Network holds the parameters of a network the wallet can be bound to.
type Network struct {
	DNSIntroducers []string
	AddressPrefix  string
	// AggSigData is the hex encoded signature domain separator.
	AggSigData string
}

func (n Network) Validate() error {
	if len(strings.TrimSpace(n.AddressPrefix)) <= 0 {
		return ErrMissingAddressPrefix
	}
	buf, err := hex.DecodeString(n.AggSigData)
	if err != nil || len(buf) != aggSigDataLength {
		return ErrInvalidAggSigData
	}
	return nil
}

// NetworkConfig is the registry of known networks along with the active one.
type NetworkConfig struct {
	Networks      map[string]Network
	ActiveNetwork string
}

// DefaultNetworkConfig returns the built-in registry with mainnet active.
func DefaultNetworkConfig() *NetworkConfig {
	return &NetworkConfig{
		Networks: map[string]Network{
			MainnetNetwork: {
				DNSIntroducers: []string{"dns-introducer.chia.net"},
				AddressPrefix:  defaultAddressPrefix,
				AggSigData:     defaultAggSigData,
			},
			SimulatorNetwork: {
				DNSIntroducers: []string{},
				AddressPrefix:  defaultAddressPrefix,
				AggSigData:     defaultAggSigData,
			},
		},
		ActiveNetwork: MainnetNetwork,
	}
}

// Validate checks every network and that the active one is registered.
func (c *NetworkConfig) Validate() error {
	if len(c.Networks) <= 0 {
		return ErrEmptyNetworkConfig
	}
	for _, name := range c.Names() {
		if len(strings.TrimSpace(name)) <= 0 {
			return ErrEmptyNetworkName
		}
		if err := c.Networks[name].Validate(); err != nil {
			return fmt.Errorf("network %s: %w", name, err)
		}
	}
	if _, ok := c.Networks[c.ActiveNetwork]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNetwork, c.ActiveNetwork)
	}
	return nil
}

// Active returns the parameters of the active network.
func (c *NetworkConfig) Active() (Network, bool) {
	n, ok := c.Networks[c.ActiveNetwork]
	return n, ok
}

// Names returns the registered network names in lexicographic order.
func (c *NetworkConfig) Names() []string {
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *NetworkConfig) SetActive(name string) error {
	if _, ok := c.Networks[name]; !ok {
		return ErrUnknownNetwork
	}
	c.ActiveNetwork = name
	return nil
}

func (c *NetworkConfig) Clone() *NetworkConfig {
	clone := &NetworkConfig{
		Networks:      make(map[string]Network, len(c.Networks)),
		ActiveNetwork: c.ActiveNetwork,
	}
	for name, n := range c.Networks {
		n.DNSIntroducers = append([]string{}, n.DNSIntroducers...)
		clone.Networks[name] = n
	}
	return clone
}

// NetworkRepository is the abstraction for the persistent storage of the
// network config. GetOrCreate stores and returns the default config if none
// exists yet.
type NetworkRepository interface {
	GetOrCreate(ctx context.Context) (*NetworkConfig, error)
	Write(ctx context.Context, config *NetworkConfig) error
}
