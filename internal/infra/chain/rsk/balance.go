package rsk

import (
	"context"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/vietddude/rnsdash/internal/core/domain"
)

// CuratedBalances reads the configured tokens for owner. A token whose
// reads fail is left out; the call itself never fails for that reason.
// The result keeps configuration order.
func (c *Client) CuratedBalances(ctx context.Context, owner string) ([]domain.CuratedBalance, error) {
	if !common.IsHexAddress(owner) {
		return nil, domain.ErrInvalidAddress
	}
	holder := common.HexToAddress(owner)

	results := make([]*domain.CuratedBalance, len(c.tokens))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range c.tokens {
		g.Go(func() error {
			b, err := c.readToken(gctx, t, holder)
			if err != nil {
				slog.Debug("Curated token read failed", "token", t.Address, "network", c.network, "error", err)
				return nil
			}
			results[i] = b
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.CuratedBalance, 0, len(results))
	for _, b := range results {
		if b != nil {
			out = append(out, *b)
		}
	}
	return out, ctx.Err()
}

// readToken runs balanceOf, symbol, name and decimals concurrently.
func (c *Client) readToken(ctx context.Context, t domain.CuratedToken, holder common.Address) (*domain.CuratedBalance, error) {
	token := common.HexToAddress(t.Address)

	var (
		raw      *big.Int
		symbol   string
		name     string
		decimals uint8
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		raw, err = call[*big.Int](gctx, c.eth, erc20ABI, token, "balanceOf", holder)
		return err
	})
	g.Go(func() (err error) {
		symbol, err = call[string](gctx, c.eth, erc20ABI, token, "symbol")
		return err
	})
	g.Go(func() (err error) {
		name, err = call[string](gctx, c.eth, erc20ABI, token, "name")
		return err
	})
	g.Go(func() (err error) {
		decimals, err = call[uint8](gctx, c.eth, erc20ABI, token, "decimals")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.CuratedBalance{
		Address:     strings.ToLower(t.Address),
		Symbol:      symbol,
		Name:        name,
		Decimals:    int(decimals),
		Raw:         raw.String(),
		Formatted:   FormatUnits(raw, int(decimals)),
		Logo:        t.Logo,
		CoingeckoID: t.CoingeckoID,
	}, nil
}
