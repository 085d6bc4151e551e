package rsk

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vietddude/rnsdash/internal/infra/rpc/provider"
)

// ContractCaller executes read-only calls. *ethclient.Client implements it.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// RawCaller sends eth_call through a plain JSON-RPC provider.
type RawCaller struct {
	p provider.RPCProvider
}

// NewRawCaller wraps p.
func NewRawCaller(p provider.RPCProvider) *RawCaller {
	return &RawCaller{p: p}
}

// CallContract implements ContractCaller at the latest block. blockNumber
// is honoured when set.
func (c *RawCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if msg.To == nil {
		return nil, fmt.Errorf("eth_call: missing target")
	}
	block := "latest"
	if blockNumber != nil {
		block = hexutil.EncodeBig(blockNumber)
	}
	arg := map[string]any{
		"to":   msg.To.Hex(),
		"data": hexutil.Encode(msg.Data),
	}

	var out hexutil.Bytes
	if err := c.p.Call(ctx, "eth_call", []any{arg, block}, &out); err != nil {
		return nil, fmt.Errorf("eth_call failed: %w", err)
	}
	return out, nil
}

// call packs method, runs it against contract and unpacks the single result.
func call[T any](ctx context.Context, c ContractCaller, contractABI abi.ABI, contract common.Address, method string, args ...any) (T, error) {
	var zero T
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return zero, fmt.Errorf("pack %s: %w", method, err)
	}

	out, err := c.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return zero, fmt.Errorf("%s on %s: %w", method, contract.Hex(), err)
	}
	if len(out) == 0 {
		return zero, fmt.Errorf("%s on %s: empty result", method, contract.Hex())
	}

	values, err := contractABI.Unpack(method, out)
	if err != nil {
		return zero, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) != 1 {
		return zero, fmt.Errorf("unpack %s: got %d values", method, len(values))
	}
	v, ok := values[0].(T)
	if !ok {
		return zero, fmt.Errorf("unpack %s: unexpected type %T", method, values[0])
	}
	return v, nil
}
