// Package rsk reads Rootstock state directly from a node: RBTC balances,
// ERC-20 balances of curated tokens and RNS name resolution.
package rsk

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/shopspring/decimal"

	"github.com/vietddude/rnsdash/internal/core/domain"
)

// BalanceReader reads native balances. *ethclient.Client implements it.
type BalanceReader interface {
	ContractCaller
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Client reads one network through its public node.
type Client struct {
	network domain.Network
	eth     BalanceReader
	closer  func()
	tokens  []domain.CuratedToken
}

// Dial connects to the node at rpcURL.
func Dial(ctx context.Context, network domain.Network, rpcURL string, timeout time.Duration, tokens []domain.CuratedToken) (*Client, error) {
	rc, err := gethrpc.DialOptions(ctx, rpcURL, gethrpc.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, fmt.Errorf("dial %s node: %w", network, err)
	}
	ec := ethclient.NewClient(rc)
	c := NewClient(network, ec, tokens)
	c.closer = ec.Close
	return c, nil
}

// NewClient creates a client over an existing reader.
func NewClient(network domain.Network, eth BalanceReader, tokens []domain.CuratedToken) *Client {
	return &Client{network: network, eth: eth, tokens: tokens, closer: func() {}}
}

// Network returns the network this client reads.
func (c *Client) Network() domain.Network {
	return c.network
}

// Caller exposes the node as a ContractCaller.
func (c *Client) Caller() ContractCaller {
	return c.eth
}

// Close releases the node connection.
func (c *Client) Close() {
	c.closer()
}

// NativeBalance returns the RBTC balance of address at the latest block.
func (c *Client) NativeBalance(ctx context.Context, address string) (domain.NativeBalance, error) {
	if !common.IsHexAddress(address) {
		return domain.NativeBalance{}, fmt.Errorf("%q: %w", address, domain.ErrInvalidAddress)
	}
	wei, err := c.eth.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return domain.NativeBalance{}, fmt.Errorf("eth_getBalance failed: %w", err)
	}
	return domain.NativeBalance{Wei: wei.String(), Ether: FormatUnits(wei, 18)}, nil
}

// FormatUnits renders v scaled down by decimals, always with a fractional
// part ("1.0", "0.000123").
func FormatUnits(v *big.Int, decimals int) string {
	if v == nil {
		v = new(big.Int)
	}
	s := decimal.NewFromBigInt(v, -int32(decimals)).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
