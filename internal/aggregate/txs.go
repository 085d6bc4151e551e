package aggregate

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/rnsdash/internal/core/config"
	"github.com/vietddude/rnsdash/internal/core/domain"
	"github.com/vietddude/rnsdash/internal/infra/alchemy"
	"github.com/vietddude/rnsdash/internal/infra/rpc/routing"
)

// TransferSource searches asset transfers over two transports.
type TransferSource interface {
	SearchTransfers(ctx context.Context, q alchemy.TransferQuery) ([]domain.Transfer, error)
	SearchTransfersRaw(ctx context.Context, q alchemy.TransferQuery) ([]domain.Transfer, error)
}

// Transactions aggregates recent inbound and outbound transfers.
type Transactions struct {
	maxCount   int
	categories []domain.TransferCategory
}

// NewTransactions creates the aggregator.
func NewTransactions(limits config.LimitsConfig) *Transactions {
	return &Transactions{
		maxCount:   orDefault(limits.TransferMaxCount, config.DefaultTransferMaxCount),
		categories: domain.DefaultTransferCategories,
	}
}

type searchFunc func(ctx context.Context, q alchemy.TransferQuery) ([]domain.Transfer, error)

// Recent returns the newest transfers from or to owner.
func (a *Transactions) Recent(ctx context.Context, src TransferSource, owner string) ([]domain.TxRow, error) {
	transfers, err := routing.Fallback(ctx, "asset_transfers",
		routing.Strategy[[]domain.Transfer]{Name: "sdk", Run: a.bothDirections(src.SearchTransfers, owner)},
		routing.Strategy[[]domain.Transfer]{Name: "raw", Run: a.bothDirections(src.SearchTransfersRaw, owner)},
	)
	if err != nil {
		return nil, fmt.Errorf("fetch transfers: %w: %w", domain.ErrUpstream, err)
	}

	merged := SortTransfers(Dedupe(transfers))
	if len(merged) > a.maxCount {
		merged = merged[:a.maxCount]
	}

	rows := make([]domain.TxRow, len(merged))
	for i, t := range merged {
		rows[i] = t.Row()
	}
	return rows, nil
}

// bothDirections runs the outbound and inbound queries concurrently and
// returns outbound records followed by inbound ones. Either failing fails
// the pair.
func (a *Transactions) bothDirections(search searchFunc, owner string) func(context.Context) ([]domain.Transfer, error) {
	return func(ctx context.Context) ([]domain.Transfer, error) {
		var from, to []domain.Transfer
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			from, err = search(gctx, alchemy.TransferQuery{FromAddress: owner, Categories: a.categories, MaxCount: a.maxCount})
			return err
		})
		g.Go(func() (err error) {
			to, err = search(gctx, alchemy.TransferQuery{ToAddress: owner, Categories: a.categories, MaxCount: a.maxCount})
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return append(from, to...), nil
	}
}

// transferKey identifies a transfer across both directions.
func transferKey(t domain.Transfer) string {
	block := "0x0"
	if t.BlockNum != nil && *t.BlockNum != "" {
		block = *t.BlockNum
	}
	to := ""
	if t.ToAddress != nil {
		to = *t.ToAddress
	}
	return block + ":" + t.Hash + ":" + t.FromAddress + ":" + to
}

// Dedupe keeps one record per key. A repeated key keeps the position of
// its first occurrence and the fields of its last.
func Dedupe(transfers []domain.Transfer) []domain.Transfer {
	pos := make(map[string]int, len(transfers))
	out := make([]domain.Transfer, 0, len(transfers))
	for _, t := range transfers {
		k := transferKey(t)
		if i, ok := pos[k]; ok {
			out[i] = t
			continue
		}
		pos[k] = len(out)
		out = append(out, t)
	}
	return out
}

// SortTransfers orders by block number, newest first. Missing or non-hex
// block numbers sort as zero; equal blocks keep their relative order.
func SortTransfers(transfers []domain.Transfer) []domain.Transfer {
	type keyed struct {
		block *big.Int
		t     domain.Transfer
	}
	ks := make([]keyed, len(transfers))
	for i, t := range transfers {
		ks[i] = keyed{block: blockNumber(t.BlockNum), t: t}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		return b.block.Cmp(a.block)
	})

	out := make([]domain.Transfer, len(ks))
	for i, k := range ks {
		out[i] = k.t
	}
	return out
}

func blockNumber(s *string) *big.Int {
	if s == nil || !strings.HasPrefix(*s, "0x") {
		return new(big.Int)
	}
	v, ok := new(big.Int).SetString((*s)[2:], 16)
	if !ok {
		return new(big.Int)
	}
	return v
}
