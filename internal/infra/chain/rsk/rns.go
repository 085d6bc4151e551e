package rsk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vietddude/rnsdash/internal/core/domain"
	"github.com/vietddude/rnsdash/internal/infra/rpc/routing"
)

// Namehash computes the EIP-137 node of a dot separated name.
func Namehash(name string) common.Hash {
	var node common.Hash
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		label := crypto.Keccak256([]byte(labels[i]))
		node = common.BytesToHash(crypto.Keccak256(node[:], label))
	}
	return node
}

// Path is one way to reach the RNS contracts.
type Path struct {
	Name   string
	Caller ContractCaller
}

// Resolver resolves RNS names against one registry, trying each path in
// order until one answers.
type Resolver struct {
	network  domain.Network
	registry common.Address
	paths    []Path
}

// NewResolver creates a resolver for the registry at registryAddress.
func NewResolver(network domain.Network, registryAddress string, paths ...Path) *Resolver {
	return &Resolver{
		network:  network,
		registry: common.HexToAddress(registryAddress),
		paths:    paths,
	}
}

// Network returns the network the registry lives on.
func (r *Resolver) Network() domain.Network {
	return r.network
}

// Resolve returns the lower-cased address of name. It fails with
// ErrNotRegistered when the registry has no resolver for the name and with
// ErrNoAddressSet when the resolver returns the zero address. Those two
// answers are authoritative and stop the path chain.
func (r *Resolver) Resolve(ctx context.Context, name domain.Name) (string, error) {
	node := Namehash(name.String())

	strategies := make([]routing.Strategy[common.Address], 0, len(r.paths))
	for _, p := range r.paths {
		strategies = append(strategies, routing.Strategy[common.Address]{
			Name: p.Name,
			Run: func(ctx context.Context) (common.Address, error) {
				addr, err := r.resolveVia(ctx, p.Caller, node)
				if errors.Is(err, domain.ErrNotRegistered) || errors.Is(err, domain.ErrNoAddressSet) {
					return addr, routing.Final(err)
				}
				return addr, err
			},
		})
	}

	addr, err := routing.Fallback(ctx, "rns_resolve", strategies...)
	switch {
	case errors.Is(err, domain.ErrNotRegistered), errors.Is(err, domain.ErrNoAddressSet):
		return "", fmt.Errorf("%s: %w", name, err)
	case err != nil:
		return "", fmt.Errorf("resolve %s: %w: %w", name, domain.ErrUpstream, err)
	}
	return strings.ToLower(addr.Hex()), nil
}

func (r *Resolver) resolveVia(ctx context.Context, c ContractCaller, node common.Hash) (common.Address, error) {
	resolver, err := call[common.Address](ctx, c, rnsABI, r.registry, "resolver", [32]byte(node))
	if err != nil {
		return common.Address{}, err
	}
	if resolver == (common.Address{}) {
		return common.Address{}, domain.ErrNotRegistered
	}

	addr, err := call[common.Address](ctx, c, rnsABI, resolver, "addr", [32]byte(node))
	if err != nil {
		return common.Address{}, err
	}
	if addr == (common.Address{}) {
		return common.Address{}, domain.ErrNoAddressSet
	}
	return addr, nil
}
