package aggregate

import (
	"context"
	"errors"

	"github.com/vietddude/rnsdash/internal/core/domain"
	"github.com/vietddude/rnsdash/internal/infra/alchemy"
	"github.com/vietddude/rnsdash/internal/infra/coingecko"
)

var errNotMocked = errors.New("not mocked")

// MockSource is a function-field fake of the data provider.
type MockSource struct {
	TokenBalancesFunc      func(ctx context.Context, owner string) ([]alchemy.TokenBalance, error)
	TokenBalancesRawFunc   func(ctx context.Context, owner string) ([]alchemy.TokenBalance, error)
	TokenMetadataFunc      func(ctx context.Context, contract string) (alchemy.TokenMetadata, error)
	NFTsForOwnerFunc       func(ctx context.Context, owner, pageKey string, pageSize int) (alchemy.NFTPage, error)
	ContractMetadataFunc   func(ctx context.Context, contract string) (alchemy.ContractMetadata, error)
	SearchTransfersFunc    func(ctx context.Context, q alchemy.TransferQuery) ([]domain.Transfer, error)
	SearchTransfersRawFunc func(ctx context.Context, q alchemy.TransferQuery) ([]domain.Transfer, error)
}

func (m *MockSource) TokenBalances(ctx context.Context, owner string) ([]alchemy.TokenBalance, error) {
	if m.TokenBalancesFunc == nil {
		return nil, errNotMocked
	}
	return m.TokenBalancesFunc(ctx, owner)
}

func (m *MockSource) TokenBalancesRaw(ctx context.Context, owner string) ([]alchemy.TokenBalance, error) {
	if m.TokenBalancesRawFunc == nil {
		return nil, errNotMocked
	}
	return m.TokenBalancesRawFunc(ctx, owner)
}

func (m *MockSource) TokenMetadata(ctx context.Context, contract string) (alchemy.TokenMetadata, error) {
	if m.TokenMetadataFunc == nil {
		return alchemy.TokenMetadata{}, errNotMocked
	}
	return m.TokenMetadataFunc(ctx, contract)
}

func (m *MockSource) NFTsForOwner(ctx context.Context, owner, pageKey string, pageSize int) (alchemy.NFTPage, error) {
	if m.NFTsForOwnerFunc == nil {
		return alchemy.NFTPage{}, errNotMocked
	}
	return m.NFTsForOwnerFunc(ctx, owner, pageKey, pageSize)
}

func (m *MockSource) ContractMetadata(ctx context.Context, contract string) (alchemy.ContractMetadata, error) {
	if m.ContractMetadataFunc == nil {
		return alchemy.ContractMetadata{}, errNotMocked
	}
	return m.ContractMetadataFunc(ctx, contract)
}

func (m *MockSource) SearchTransfers(ctx context.Context, q alchemy.TransferQuery) ([]domain.Transfer, error) {
	if m.SearchTransfersFunc == nil {
		return nil, errNotMocked
	}
	return m.SearchTransfersFunc(ctx, q)
}

func (m *MockSource) SearchTransfersRaw(ctx context.Context, q alchemy.TransferQuery) ([]domain.Transfer, error) {
	if m.SearchTransfersRawFunc == nil {
		return nil, errNotMocked
	}
	return m.SearchTransfersRawFunc(ctx, q)
}

// MockSecondary fakes the public metadata service.
type MockSecondary struct {
	ContractInfoFunc func(ctx context.Context, address string) (coingecko.TokenInfo, error)
}

func (m *MockSecondary) ContractInfo(ctx context.Context, address string) (coingecko.TokenInfo, error) {
	return m.ContractInfoFunc(ctx, address)
}

func strPtr(s string) *string { return &s }

func intPtr(v int) *int { return &v }
