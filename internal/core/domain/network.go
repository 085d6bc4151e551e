package domain

import (
	"fmt"
	"strings"
)

// Network selects one of the two Rootstock deployments.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

// ChainID is the EVM chain id of a network.
type ChainID int64

const (
	ChainIDRootstockMainnet ChainID = 30
	ChainIDRootstockTestnet ChainID = 31
)

// NetworkChainIDs maps each network to its chain id.
var NetworkChainIDs = map[Network]ChainID{
	NetworkMainnet: ChainIDRootstockMainnet,
	NetworkTestnet: ChainIDRootstockTestnet,
}

// Networks lists the supported networks in display order.
var Networks = []Network{NetworkMainnet, NetworkTestnet}

// ParseNetwork parses a query value. An empty value selects mainnet.
func ParseNetwork(s string) (Network, error) {
	switch Network(strings.ToLower(strings.TrimSpace(s))) {
	case "", NetworkMainnet:
		return NetworkMainnet, nil
	case NetworkTestnet:
		return NetworkTestnet, nil
	}
	return "", fmt.Errorf("%w: unknown network %q", ErrInvalidNetwork, s)
}

func (n Network) String() string { return string(n) }

// IsMainnet reports whether n is the production network.
func (n Network) IsMainnet() bool { return n == NetworkMainnet }
