// Package dashboard resolves an RNS name and gathers every view of the
// resolved account in one call.
package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vietddude/rnsdash/internal/aggregate"
	"github.com/vietddude/rnsdash/internal/core/domain"
)

// Resolver maps a name to an address on one network.
type Resolver interface {
	Resolve(ctx context.Context, name domain.Name) (string, error)
}

// Chain reads balances straight from a node.
type Chain interface {
	NativeBalance(ctx context.Context, address string) (domain.NativeBalance, error)
	CuratedBalances(ctx context.Context, owner string) ([]domain.CuratedBalance, error)
}

// Source is the full data-provider surface.
type Source interface {
	aggregate.TokenSource
	aggregate.NFTSource
	aggregate.TransferSource
}

// Network bundles the per-network collaborators. Source may be nil when no
// data provider is configured; those sections then carry an error.
type Network struct {
	Resolver Resolver
	Chain    Chain
	Source   Source
}

// Section is one independently fetched part of the view.
type Section[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

// View is everything known about a resolved name.
type View struct {
	Name    string                           `json:"name"`
	Network domain.Network                   `json:"network"`
	Address string                           `json:"address"`
	Balance Section[*domain.NativeBalance]   `json:"balance"`
	Curated Section[[]domain.CuratedBalance] `json:"curated"`
	Tokens  Section[[]domain.TokenHolding]   `json:"tokens"`
	NFTs    Section[[]domain.NFTHolding]     `json:"nfts"`
	Txs     Section[[]domain.TxRow]          `json:"txs"`
}

// Dashboard runs the lookups.
type Dashboard struct {
	networks map[domain.Network]Network
	tokens   *aggregate.Tokens
	nfts     *aggregate.NFTs
	txs      *aggregate.Transactions
}

// New creates a dashboard over the configured networks.
func New(networks map[domain.Network]Network, tokens *aggregate.Tokens, nfts *aggregate.NFTs, txs *aggregate.Transactions) *Dashboard {
	return &Dashboard{networks: networks, tokens: tokens, nfts: nfts, txs: txs}
}

// Lookup validates and resolves name, then fetches every section in
// parallel. A resolution failure is returned as the error and nothing else
// is fetched. Section failures are reported inside the view.
func (d *Dashboard) Lookup(ctx context.Context, rawName string, network domain.Network) (*View, error) {
	name, err := domain.ParseName(rawName)
	if err != nil {
		return nil, err
	}
	n, ok := d.networks[network]
	if !ok || n.Resolver == nil {
		return nil, domain.ErrNotConfigured
	}

	address, err := n.Resolver.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	slog.Debug("Resolved name", "name", name, "network", network, "address", address)

	v := &View{Name: name.String(), Network: network, Address: address}

	var wg sync.WaitGroup
	if n.Chain != nil {
		wg.Go(func() {
			b, err := n.Chain.NativeBalance(ctx, address)
			v.Balance = section(&b, err)
		})
		wg.Go(func() {
			v.Curated = section(n.Chain.CuratedBalances(ctx, address))
		})
	}

	if n.Source == nil {
		missing := domain.ErrNotConfigured.Error()
		v.Tokens.Error, v.NFTs.Error, v.Txs.Error = missing, missing, missing
	} else {
		wg.Go(func() {
			v.Tokens = section(d.tokens.Holdings(ctx, n.Source, network, address))
		})
		wg.Go(func() {
			v.NFTs = section(d.nfts.Holdings(ctx, n.Source, address))
		})
		wg.Go(func() {
			v.Txs = section(d.txs.Recent(ctx, n.Source, address))
		})
	}

	wg.Wait()
	return v, nil
}

func section[T any](data T, err error) Section[T] {
	if err != nil {
		slog.Warn("Dashboard section failed", "error", err)
		var zero T
		return Section[T]{Data: zero, Error: err.Error()}
	}
	return Section[T]{Data: data}
}
