package alchemy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vietddude/rnsdash/internal/core/domain"
)

// fakeAlchemy serves JSON-RPC on /v2/key and the NFT API on /nft/v3/key.
type fakeAlchemy struct {
	t    *testing.T
	rpc  map[string]func(params []json.RawMessage) (any, *rpcErr)
	rest map[string]func(r *http.Request) any
}

type rpcErr struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newFake(t *testing.T) *fakeAlchemy {
	return &fakeAlchemy{
		t:    t,
		rpc:  make(map[string]func([]json.RawMessage) (any, *rpcErr)),
		rest: make(map[string]func(*http.Request) any),
	}
}

func (f *fakeAlchemy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if strings.HasPrefix(r.URL.Path, "/nft/v3/key/") {
		h, ok := f.rest[strings.TrimPrefix(r.URL.Path, "/nft/v3/key/")]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(h(r))
		return
	}

	var req struct {
		ID     json.RawMessage   `json:"id"`
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.t.Errorf("bad request body: %v", err)
		return
	}

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	h, ok := f.rpc[req.Method]
	if !ok {
		resp["error"] = rpcErr{Code: -32601, Message: "method not found"}
	} else if result, e := h(req.Params); e != nil {
		resp["error"] = e
	} else {
		resp["result"] = result
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func newTestClient(t *testing.T, f *fakeAlchemy) *Client {
	t.Helper()
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)

	c, err := NewClient(context.Background(), domain.NetworkMainnet, server.URL+"/v2/key", 5*time.Second, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNFTEndpoint(t *testing.T) {
	tests := map[string]string{
		"https://rootstock-mainnet.g.alchemy.com/v2/abc":  "https://rootstock-mainnet.g.alchemy.com/nft/v3/abc",
		"https://rootstock-mainnet.g.alchemy.com/v2/abc/": "https://rootstock-mainnet.g.alchemy.com/nft/v3/abc",
		"http://localhost:8545":                           "http://localhost:8545/nft/v3",
	}
	for in, want := range tests {
		if got := NFTEndpoint(in); got != want {
			t.Errorf("NFTEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewClient_NotConfigured(t *testing.T) {
	_, err := NewClient(context.Background(), domain.NetworkTestnet, "", time.Second, nil)
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected not configured error, got %v", err)
	}
}

func TestTokenBalances(t *testing.T) {
	f := newFake(t)
	f.rpc["alchemy_getTokenBalances"] = func(params []json.RawMessage) (any, *rpcErr) {
		if len(params) != 2 {
			return nil, &rpcErr{Code: -32602, Message: "typed transport sends two params"}
		}
		return map[string]any{
			"address": "0xowner",
			"tokenBalances": []any{
				map[string]any{"contractAddress": "0xaa", "tokenBalance": "0x0"},
				map[string]any{"contractAddress": "0xbb", "tokenBalance": "0x5"},
				map[string]any{"contractAddress": "0xcc", "tokenBalance": nil},
				"garbage",
			},
		}, nil
	}
	c := newTestClient(t, f)

	got, err := c.TokenBalances(context.Background(), "0xowner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenBalance{
		{ContractAddress: "0xaa", Balance: "0x0"},
		{ContractAddress: "0xbb", Balance: "0x5"},
		{ContractAddress: "0xcc", Balance: "0x0"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d balances, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("balance %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTokenBalancesRaw_SendsOptionsObject(t *testing.T) {
	f := newFake(t)
	f.rpc["alchemy_getTokenBalances"] = func(params []json.RawMessage) (any, *rpcErr) {
		if len(params) != 3 || string(params[2]) != "{}" {
			return nil, &rpcErr{Code: -32602, Message: "raw transport sends an options object"}
		}
		return map[string]any{"tokenBalances": []any{}}, nil
	}
	c := newTestClient(t, f)

	got, err := c.TokenBalancesRaw(context.Background(), "0xowner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no balances, got %+v", got)
	}
}

func TestTokenMetadata(t *testing.T) {
	f := newFake(t)
	f.rpc["alchemy_getTokenMetadata"] = func(params []json.RawMessage) (any, *rpcErr) {
		return map[string]any{"name": "RIF", "symbol": "RIF", "decimals": 18, "logo": nil}, nil
	}
	c := newTestClient(t, f)

	m, err := c.TokenMetadata(context.Background(), "0x2acc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "RIF" || m.Symbol != "RIF" || m.Decimals == nil || *m.Decimals != 18 {
		t.Errorf("unexpected metadata %+v", m)
	}
}

func TestTokenMetadata_NullDecimals(t *testing.T) {
	f := newFake(t)
	f.rpc["alchemy_getTokenMetadata"] = func(params []json.RawMessage) (any, *rpcErr) {
		return map[string]any{"name": nil, "symbol": "X", "decimals": nil}, nil
	}
	c := newTestClient(t, f)

	m, err := c.TokenMetadata(context.Background(), "0x1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "" || m.Symbol != "X" || m.Decimals != nil {
		t.Errorf("unexpected metadata %+v", m)
	}
}

func TestNFTsForOwner_Shapes(t *testing.T) {
	f := newFake(t)
	f.rest["getNFTsForOwner"] = func(r *http.Request) any {
		q := r.URL.Query()
		if q.Get("owner") != "0xowner" || q.Get("pageSize") != "100" || q.Get("withMetadata") != "false" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		return map[string]any{
			"ownedNfts": []any{
				map[string]any{"contractAddress": "0xtop", "tokenId": "1", "contract": map[string]any{"address": "0xnested"}},
				map[string]any{"contract": map[string]any{"address": "0xcc", "tokenType": "ERC721"}, "tokenId": "0x2A"},
				map[string]any{"contract": map[string]any{"contractAddress": "0xdd"}, "tokenId": "7", "tokenType": "ERC1155"},
				map[string]any{"contract": "not-an-object", "tokenId": "9"},
				map[string]any{"tokenId": "10"},
			},
			"pageKey": "next",
		}
	}
	c := newTestClient(t, f)

	page, err := c.NFTsForOwner(context.Background(), "0xowner", "", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.PageKey != "next" {
		t.Errorf("pageKey = %q", page.PageKey)
	}
	if len(page.NFTs) != 3 {
		t.Fatalf("expected 3 items, got %+v", page.NFTs)
	}

	if page.NFTs[0].ContractAddress != "0xtop" || page.NFTs[0].TokenType != nil {
		t.Errorf("top-level address should win: %+v", page.NFTs[0])
	}
	if n := page.NFTs[1]; n.ContractAddress != "0xcc" || n.TokenID != "0x2A" || n.TokenType == nil || *n.TokenType != "ERC721" {
		t.Errorf("nested address item wrong: %+v", n)
	}
	if n := page.NFTs[2]; n.ContractAddress != "0xdd" || n.TokenType == nil || *n.TokenType != "ERC1155" {
		t.Errorf("nested contractAddress item wrong: %+v", n)
	}
}

func TestNFTsForOwner_NoPageKey(t *testing.T) {
	f := newFake(t)
	f.rest["getNFTsForOwner"] = func(r *http.Request) any {
		if r.URL.Query().Get("pageKey") != "abc" {
			t.Errorf("pageKey not forwarded: %s", r.URL.RawQuery)
		}
		return map[string]any{"ownedNfts": "oops", "pageKey": nil}
	}
	c := newTestClient(t, f)

	page, err := c.NFTsForOwner(context.Background(), "0xowner", "abc", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.PageKey != "" || len(page.NFTs) != 0 {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestContractMetadata_FlatAndNested(t *testing.T) {
	f := newFake(t)
	f.rest["getContractMetadata"] = func(r *http.Request) any {
		switch r.URL.Query().Get("contractAddress") {
		case "0xflat":
			return map[string]any{"name": "Flat", "symbol": "FL", "contractDeployer": "0xdep", "tokenType": "ERC721"}
		default:
			return map[string]any{
				"symbol":           "TOP",
				"contractMetadata": map[string]any{"name": "Nested", "symbol": "NS", "tokenType": "ERC1155"},
			}
		}
	}
	c := newTestClient(t, f)
	ctx := context.Background()

	flat, err := c.ContractMetadata(ctx, "0xflat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *flat.Name != "Flat" || *flat.ContractDeployer != "0xdep" || *flat.TokenType != "ERC721" {
		t.Errorf("unexpected flat metadata %+v", flat)
	}

	nested, err := c.ContractMetadata(ctx, "0xnested")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *nested.Name != "Nested" || *nested.Symbol != "TOP" || *nested.TokenType != "ERC1155" || nested.ContractDeployer != nil {
		t.Errorf("unexpected nested metadata %+v", nested)
	}
}

func TestSearchTransfers(t *testing.T) {
	f := newFake(t)
	f.rpc["alchemy_getAssetTransfers"] = func(params []json.RawMessage) (any, *rpcErr) {
		var p map[string]any
		_ = json.Unmarshal(params[0], &p)
		if p["maxCount"] != "0x14" || p["order"] != "desc" || p["withMetadata"] != false {
			t.Errorf("unexpected params %v", p)
		}
		if _, ok := p["toAddress"]; ok {
			t.Errorf("toAddress should be omitted: %v", p)
		}
		cats, _ := p["category"].([]any)
		if len(cats) != 4 || cats[0] != "external" {
			t.Errorf("unexpected categories %v", p["category"])
		}
		return map[string]any{"transfers": []any{
			map[string]any{"hash": "0x1", "from": "0xa", "to": "0xb", "value": 0.5, "asset": "RBTC", "category": "external", "blockNum": "0x10"},
			map[string]any{"from": "0xa", "blockNum": "0x11"},
			map[string]any{"hash": "0x2", "from": "0xa", "to": nil},
		}}, nil
	}
	c := newTestClient(t, f)
	q := TransferQuery{FromAddress: "0xa", Categories: domain.DefaultTransferCategories, MaxCount: 20}

	for name, search := range map[string]func(context.Context, TransferQuery) ([]domain.Transfer, error){
		"typed": c.SearchTransfers,
		"raw":   c.SearchTransfersRaw,
	} {
		got, err := search(context.Background(), q)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if len(got) != 2 {
			t.Fatalf("%s: expected hashless record dropped, got %+v", name, got)
		}
		if got[0].Value == nil || *got[0].Value != "0.5" || *got[0].BlockNum != "0x10" {
			t.Errorf("%s: unexpected first record %+v", name, got[0])
		}
		if got[1].ToAddress != nil || got[1].BlockNum != nil || got[1].Asset != nil {
			t.Errorf("%s: absent fields should be nil: %+v", name, got[1])
		}
	}
}

func TestRegistry(t *testing.T) {
	c := newTestClient(t, newFake(t))
	r := NewRegistry(c, nil)

	if got, err := r.For(domain.NetworkMainnet); err != nil || got != c {
		t.Errorf("For(mainnet) = %v, %v", got, err)
	}
	if _, err := r.For(domain.NetworkTestnet); err == nil {
		t.Error("expected testnet to be unconfigured")
	}
	if len(r.Clients()) != 1 {
		t.Errorf("expected 1 client")
	}
}
