package alchemy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vietddude/rnsdash/internal/core/domain"
)

// TransferQuery filters alchemy_getAssetTransfers. Exactly one of
// FromAddress and ToAddress is normally set.
type TransferQuery struct {
	FromAddress string
	ToAddress   string
	Categories  []domain.TransferCategory
	MaxCount    int
}

// assetTransfersParams is the typed request body.
type assetTransfersParams struct {
	FromAddress  string                    `json:"fromAddress,omitempty"`
	ToAddress    string                    `json:"toAddress,omitempty"`
	Category     []domain.TransferCategory `json:"category"`
	MaxCount     hexutil.Uint64            `json:"maxCount"`
	Order        string                    `json:"order"`
	WithMetadata bool                      `json:"withMetadata"`
}

type assetTransfersResult struct {
	Transfers json.RawMessage `json:"transfers"`
	PageKey   optString       `json:"pageKey"`
}

type rawTransfer struct {
	Hash     optString `json:"hash"`
	From     optString `json:"from"`
	To       optString `json:"to"`
	Asset    optString `json:"asset"`
	Category optString `json:"category"`
	Value    optText   `json:"value"`
	BlockNum optString `json:"blockNum"`
}

// SearchTransfers returns the most recent transfers matching q, newest
// first, over the typed transport.
func (c *Client) SearchTransfers(ctx context.Context, q TransferQuery) ([]domain.Transfer, error) {
	params := assetTransfersParams{
		FromAddress:  q.FromAddress,
		ToAddress:    q.ToAddress,
		Category:     q.Categories,
		MaxCount:     hexutil.Uint64(q.MaxCount),
		Order:        "desc",
		WithMetadata: false,
	}

	var res assetTransfersResult
	if err := c.call(ctx, &res, "alchemy_getAssetTransfers", params); err != nil {
		return nil, err
	}
	return res.normalize(), nil
}

// SearchTransfersRaw is SearchTransfers over the plain HTTP transport.
func (c *Client) SearchTransfersRaw(ctx context.Context, q TransferQuery) ([]domain.Transfer, error) {
	categories := make([]string, len(q.Categories))
	for i, cat := range q.Categories {
		categories[i] = string(cat)
	}
	params := map[string]any{
		"category":     categories,
		"maxCount":     fmt.Sprintf("0x%x", q.MaxCount),
		"order":        "desc",
		"withMetadata": false,
	}
	if q.FromAddress != "" {
		params["fromAddress"] = q.FromAddress
	}
	if q.ToAddress != "" {
		params["toAddress"] = q.ToAddress
	}

	var res assetTransfersResult
	if err := c.callRaw(ctx, &res, "alchemy_getAssetTransfers", params); err != nil {
		return nil, err
	}
	return res.normalize(), nil
}

// normalize drops records without a hash. Other fields stay nil when absent.
func (r assetTransfersResult) normalize() []domain.Transfer {
	items := objects(r.Transfers)
	out := make([]domain.Transfer, 0, len(items))
	for _, it := range items {
		var t rawTransfer
		if !object(it, &t) || t.Hash.Value == "" {
			continue
		}
		out = append(out, domain.Transfer{
			Hash:        t.Hash.Value,
			FromAddress: t.From.Value,
			ToAddress:   t.To.Ptr(),
			Asset:       t.Asset.Ptr(),
			Category:    t.Category.Ptr(),
			Value:       t.Value.Ptr(),
			BlockNum:    t.BlockNum.Ptr(),
		})
	}
	return out
}
