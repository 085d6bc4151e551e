package alchemy

import (
	"context"
	"encoding/json"
)

// TokenBalance is one entry of alchemy_getTokenBalances.
// Balance is the provider's hex string, "0x0" when it reported null.
type TokenBalance struct {
	ContractAddress string
	Balance         string
}

// TokenMetadata is the result of alchemy_getTokenMetadata.
type TokenMetadata struct {
	Name     string
	Symbol   string
	Decimals *int
}

type tokenBalancesResult struct {
	Address       string          `json:"address"`
	TokenBalances json.RawMessage `json:"tokenBalances"`
}

type rawTokenBalance struct {
	ContractAddress optString `json:"contractAddress"`
	TokenBalance    optString `json:"tokenBalance"`
}

type rawTokenMetadata struct {
	Name     optString `json:"name"`
	Symbol   optString `json:"symbol"`
	Decimals optInt    `json:"decimals"`
}

// TokenBalances lists the ERC-20 balances of owner over the typed transport.
func (c *Client) TokenBalances(ctx context.Context, owner string) ([]TokenBalance, error) {
	var res tokenBalancesResult
	if err := c.call(ctx, &res, "alchemy_getTokenBalances", owner, "erc20"); err != nil {
		return nil, err
	}
	return res.normalize(), nil
}

// TokenBalancesRaw is TokenBalances over the plain HTTP transport.
func (c *Client) TokenBalancesRaw(ctx context.Context, owner string) ([]TokenBalance, error) {
	var res tokenBalancesResult
	if err := c.callRaw(ctx, &res, "alchemy_getTokenBalances", owner, "erc20", map[string]any{}); err != nil {
		return nil, err
	}
	return res.normalize(), nil
}

func (r tokenBalancesResult) normalize() []TokenBalance {
	items := objects(r.TokenBalances)
	out := make([]TokenBalance, 0, len(items))
	for _, it := range items {
		var b rawTokenBalance
		if !object(it, &b) || !b.ContractAddress.Valid {
			continue
		}
		balance := "0x0"
		if b.TokenBalance.Valid {
			balance = b.TokenBalance.Value
		}
		out = append(out, TokenBalance{ContractAddress: b.ContractAddress.Value, Balance: balance})
	}
	return out
}

// TokenMetadata returns name, symbol and decimals of an ERC-20 contract.
func (c *Client) TokenMetadata(ctx context.Context, contract string) (TokenMetadata, error) {
	var raw json.RawMessage
	if err := c.call(ctx, &raw, "alchemy_getTokenMetadata", contract); err != nil {
		return TokenMetadata{}, err
	}
	var m rawTokenMetadata
	object(raw, &m)
	return TokenMetadata{Name: m.Name.Value, Symbol: m.Symbol.Value, Decimals: m.Decimals.Ptr()}, nil
}
