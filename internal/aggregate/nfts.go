package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vietddude/rnsdash/internal/core/config"
	"github.com/vietddude/rnsdash/internal/core/domain"
	"github.com/vietddude/rnsdash/internal/infra/alchemy"
	"github.com/vietddude/rnsdash/internal/metrics"
)

// NFTSource discovers owned NFTs and collection metadata.
type NFTSource interface {
	NFTsForOwner(ctx context.Context, owner, pageKey string, pageSize int) (alchemy.NFTPage, error)
	ContractMetadata(ctx context.Context, contract string) (alchemy.ContractMetadata, error)
}

// NFTs aggregates non-fungible holdings.
type NFTs struct {
	pageSize      int
	maxPages      int
	metadataBatch int
}

// NewNFTs creates the aggregator.
func NewNFTs(limits config.LimitsConfig) *NFTs {
	return &NFTs{
		pageSize:      orDefault(limits.NFTPageSize, config.DefaultNFTPageSize),
		maxPages:      orDefault(limits.NFTMaxPages, config.DefaultNFTMaxPages),
		metadataBatch: orDefault(limits.NFTMetadataConcurrency, config.DefaultNFTMetadataConcurrency),
	}
}

// Holdings returns the NFTs held by owner. At most maxPages pages are read
// even when the provider reports more.
func (a *NFTs) Holdings(ctx context.Context, src NFTSource, owner string) ([]domain.NFTHolding, error) {
	var owned []alchemy.OwnedNFT
	pageKey := ""
	for page := 0; page < a.maxPages; page++ {
		res, err := src.NFTsForOwner(ctx, owner, pageKey, a.pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch nfts page %d: %w: %w", page+1, domain.ErrUpstream, err)
		}
		owned = append(owned, res.NFTs...)

		pageKey = res.PageKey
		if pageKey == "" {
			break
		}
	}
	if len(owned) == 0 {
		return []domain.NFTHolding{}, nil
	}

	meta, err := a.contractMetadata(ctx, src, owned)
	if err != nil {
		return nil, err
	}

	out := make([]domain.NFTHolding, 0, len(owned))
	for _, n := range owned {
		m := meta[strings.ToLower(n.ContractAddress)]
		h := domain.NFTHolding{
			ContractAddress:  n.ContractAddress,
			Name:             deref(m.Name),
			Symbol:           deref(m.Symbol),
			ContractDeployer: m.ContractDeployer,
			TokenType:        n.TokenType,
			TokenID:          NormalizeTokenID(n.TokenID),
		}
		if h.TokenType == nil {
			h.TokenType = m.TokenType
		}
		out = append(out, h)
	}
	return out, nil
}

// contractMetadata fetches metadata once per distinct contract, keyed by
// lower-cased address. Failed lookups are absent from the map.
func (a *NFTs) contractMetadata(ctx context.Context, src NFTSource, owned []alchemy.OwnedNFT) (map[string]alchemy.ContractMetadata, error) {
	seen := make(map[string]struct{})
	var contracts []string
	for _, n := range owned {
		addr := strings.ToLower(n.ContractAddress)
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		contracts = append(contracts, addr)
	}

	results := make([]*alchemy.ContractMetadata, len(contracts))
	err := inBatches(ctx, contracts, a.metadataBatch, func(ctx context.Context, i int, addr string) {
		m, err := src.ContractMetadata(ctx, addr)
		if err != nil {
			metrics.EnrichmentGapsTotal.WithLabelValues("nft_metadata").Inc()
			slog.Debug("NFT contract metadata unavailable", "contract", addr, "error", err)
			return
		}
		results[i] = &m
	})
	if err != nil {
		return nil, err
	}

	meta := make(map[string]alchemy.ContractMetadata, len(contracts))
	for i, addr := range contracts {
		if results[i] != nil {
			meta[addr] = *results[i]
		}
	}
	return meta, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
