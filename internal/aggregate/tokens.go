package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vietddude/rnsdash/internal/core/config"
	"github.com/vietddude/rnsdash/internal/core/domain"
	"github.com/vietddude/rnsdash/internal/infra/alchemy"
	"github.com/vietddude/rnsdash/internal/infra/coingecko"
	"github.com/vietddude/rnsdash/internal/infra/rpc/routing"
	"github.com/vietddude/rnsdash/internal/metrics"
)

// TokenSource discovers ERC-20 balances and their metadata.
type TokenSource interface {
	TokenBalances(ctx context.Context, owner string) ([]alchemy.TokenBalance, error)
	TokenBalancesRaw(ctx context.Context, owner string) ([]alchemy.TokenBalance, error)
	TokenMetadata(ctx context.Context, contract string) (alchemy.TokenMetadata, error)
}

// SecondaryMetadata is a public metadata service keyed by contract.
type SecondaryMetadata interface {
	ContractInfo(ctx context.Context, address string) (coingecko.TokenInfo, error)
}

// Tokens aggregates fungible token holdings.
type Tokens struct {
	secondary      SecondaryMetadata
	metadataBatch  int
	secondaryBatch int
}

// NewTokens creates the aggregator. secondary may be nil.
func NewTokens(secondary SecondaryMetadata, limits config.LimitsConfig) *Tokens {
	return &Tokens{
		secondary:      secondary,
		metadataBatch:  orDefault(limits.TokenMetadataConcurrency, config.DefaultTokenMetadataConcurrency),
		secondaryBatch: orDefault(limits.SecondaryMetadataConcurrency, config.DefaultSecondaryMetadataConcurrency),
	}
}

// Holdings returns the non-zero token balances of owner in discovery order.
func (a *Tokens) Holdings(ctx context.Context, src TokenSource, network domain.Network, owner string) ([]domain.TokenHolding, error) {
	balances, err := routing.Fallback(ctx, "token_balances",
		routing.Strategy[[]alchemy.TokenBalance]{Name: "sdk", Run: func(ctx context.Context) ([]alchemy.TokenBalance, error) {
			return src.TokenBalances(ctx, owner)
		}},
		routing.Strategy[[]alchemy.TokenBalance]{Name: "raw", Run: func(ctx context.Context) ([]alchemy.TokenBalance, error) {
			return src.TokenBalancesRaw(ctx, owner)
		}},
	)
	if err != nil {
		return nil, fmt.Errorf("fetch token balances: %w: %w", domain.ErrUpstream, err)
	}

	held := nonZero(balances)
	out := make([]domain.TokenHolding, len(held))

	err = inBatches(ctx, held, a.metadataBatch, func(ctx context.Context, i int, b alchemy.TokenBalance) {
		out[i] = domain.TokenHolding{Address: b.ContractAddress, BalanceRaw: b.Balance}
		meta, err := src.TokenMetadata(ctx, b.ContractAddress)
		if err != nil {
			metrics.EnrichmentGapsTotal.WithLabelValues("token_metadata").Inc()
			slog.Debug("Token metadata unavailable", "contract", b.ContractAddress, "error", err)
			return
		}
		out[i].Name, out[i].Symbol, out[i].Decimals = meta.Name, meta.Symbol, meta.Decimals
	})
	if err != nil {
		return nil, err
	}

	if network.IsMainnet() && a.secondary != nil {
		if err := a.backfill(ctx, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// nonZero keeps balances that parse and are greater than zero.
func nonZero(balances []alchemy.TokenBalance) []alchemy.TokenBalance {
	out := make([]alchemy.TokenBalance, 0, len(balances))
	for _, b := range balances {
		v, ok := parseQuantity(b.Balance)
		if !ok {
			slog.Debug("Skipping unparseable token balance", "contract", b.ContractAddress, "balance", b.Balance)
			continue
		}
		if v.Sign() > 0 {
			out = append(out, b)
		}
	}
	return out
}

// backfill fills missing name, symbol and decimals from the secondary
// service. Present values are never overwritten.
func (a *Tokens) backfill(ctx context.Context, holdings []domain.TokenHolding) error {
	var idx []int
	for i, h := range holdings {
		if isMissing(h.Name) || isMissing(h.Symbol) {
			idx = append(idx, i)
		}
	}

	return inBatches(ctx, idx, a.secondaryBatch, func(ctx context.Context, _ int, i int) {
		h := &holdings[i]
		info, err := a.secondary.ContractInfo(ctx, h.Address)
		if err != nil {
			metrics.EnrichmentGapsTotal.WithLabelValues("secondary_metadata").Inc()
			slog.Debug("Secondary metadata unavailable", "contract", h.Address, "error", err)
			return
		}
		if isMissing(h.Name) && info.Name != "" {
			h.Name = info.Name
		}
		if isMissing(h.Symbol) && info.Symbol != "" {
			h.Symbol = strings.ToUpper(info.Symbol)
		}
		if h.Decimals == nil && info.Decimals != nil {
			d := *info.Decimals
			h.Decimals = &d
		}
	})
}

// isMissing reports an empty value or the provider's "unknown" placeholder.
func isMissing(v string) bool {
	s := strings.TrimSpace(v)
	return s == "" || strings.EqualFold(s, "unknown")
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
