package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vietddude/rnsdash/internal/aggregate"
	"github.com/vietddude/rnsdash/internal/core/config"
	"github.com/vietddude/rnsdash/internal/core/domain"
	"github.com/vietddude/rnsdash/internal/dashboard"
	"github.com/vietddude/rnsdash/internal/health"
	"github.com/vietddude/rnsdash/internal/infra/alchemy"
	"github.com/vietddude/rnsdash/internal/infra/rpc/provider"
)

// mockSource serves a fixed provider surface. It records the owner it saw.
type mockSource struct {
	owner    string
	failAll  bool
	balances []alchemy.TokenBalance
}

func (m *mockSource) TokenBalances(ctx context.Context, owner string) ([]alchemy.TokenBalance, error) {
	m.owner = owner
	if m.failAll {
		return nil, errors.New("sdk down")
	}
	return m.balances, nil
}

func (m *mockSource) TokenBalancesRaw(ctx context.Context, owner string) ([]alchemy.TokenBalance, error) {
	return nil, errors.New("raw down")
}

func (m *mockSource) TokenMetadata(ctx context.Context, contract string) (alchemy.TokenMetadata, error) {
	return alchemy.TokenMetadata{Name: "Token", Symbol: "TKN"}, nil
}

func (m *mockSource) NFTsForOwner(ctx context.Context, owner, pageKey string, pageSize int) (alchemy.NFTPage, error) {
	return alchemy.NFTPage{NFTs: []alchemy.OwnedNFT{{ContractAddress: "0xcc", TokenID: "0x2A"}}}, nil
}

func (m *mockSource) ContractMetadata(ctx context.Context, contract string) (alchemy.ContractMetadata, error) {
	return alchemy.ContractMetadata{}, errors.New("no metadata")
}

func (m *mockSource) SearchTransfers(ctx context.Context, q alchemy.TransferQuery) ([]domain.Transfer, error) {
	hash := "0xin"
	if q.FromAddress != "" {
		hash = "0xout"
	}
	return []domain.Transfer{{Hash: hash}}, nil
}

func (m *mockSource) SearchTransfersRaw(ctx context.Context, q alchemy.TransferQuery) ([]domain.Transfer, error) {
	return nil, errors.New("unused")
}

type mockChain struct {
	err error
}

func (m mockChain) NativeBalance(ctx context.Context, address string) (domain.NativeBalance, error) {
	return domain.NativeBalance{Wei: "1", Ether: "0.000000000000000001"}, m.err
}

func (m mockChain) CuratedBalances(ctx context.Context, owner string) ([]domain.CuratedBalance, error) {
	return []domain.CuratedBalance{{Symbol: "RIF"}}, nil
}

type mockAvailability struct {
	calls int
	err   error
}

func (m *mockAvailability) Availability(ctx context.Context, name domain.Name) (domain.Availability, error) {
	m.calls++
	if m.err != nil {
		return domain.Availability{}, m.err
	}
	return domain.Availability{Name: name.String(), Network: domain.NetworkMainnet, Available: true, RIFPricePerYear: domain.RIFPricePerYear}, nil
}

type mockResolver struct{}

func (mockResolver) Resolve(ctx context.Context, name domain.Name) (string, error) {
	if name == "missing.rsk" {
		return "", domain.ErrNotRegistered
	}
	return "0xabc", nil
}

type mockHealth struct {
	available bool
}

func (m mockHealth) Health() []provider.HealthStatus {
	return []provider.HealthStatus{{Provider: "alchemy-mainnet", Available: m.available}}
}

func newTestRouter(src *mockSource, avail *mockAvailability, healthy bool) http.Handler {
	limits := config.LimitsConfig{}
	networks := map[domain.Network]dashboard.Network{
		domain.NetworkMainnet: {Resolver: mockResolver{}, Chain: mockChain{}, Source: src},
		domain.NetworkTestnet: {Resolver: mockResolver{}, Chain: mockChain{}},
	}
	tokens := aggregate.NewTokens(nil, limits)
	nfts := aggregate.NewNFTs(limits)
	txs := aggregate.NewTransactions(limits)
	h := NewHandlers(Deps{
		Networks:     networks,
		Availability: avail,
		Tokens:       tokens,
		NFTs:         nfts,
		Txs:          txs,
		Dashboard:    dashboard.New(networks, tokens, nfts, txs),
		Health:       health.NewMonitor(nil, mockHealth{available: healthy}),
	})
	return NewRouter(config.ServerConfig{AllowedOrigins: []string{"*"}}, h)
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("%s: decode body %q: %v", target, rec.Body.String(), err)
	}
	return rec, body
}

func TestTokens(t *testing.T) {
	src := &mockSource{balances: []alchemy.TokenBalance{
		{ContractAddress: "0xaa", Balance: "0x0"},
		{ContractAddress: "0xbb", Balance: "0x5"},
	}}
	rec, body := get(t, newTestRouter(src, nil, true), "/api/tokens?address=0xABC")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %v", rec.Code, body)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("cache-control = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("content-type = %q", got)
	}
	if src.owner != "0xabc" {
		t.Errorf("address should be lower-cased, got %q", src.owner)
	}
	tokens := body["tokens"].([]any)
	if len(tokens) != 1 || tokens[0].(map[string]any)["address"] != "0xbb" {
		t.Errorf("unexpected tokens: %v", tokens)
	}
}

func TestTokens_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		src    *mockSource
		status int
		msg    string
	}{
		{"missing address", "/api/tokens", &mockSource{}, http.StatusBadRequest, "Missing address"},
		{"unknown network", "/api/tokens?address=0x1&network=devnet", &mockSource{}, http.StatusBadRequest, ""},
		{"not configured", "/api/tokens?address=0x1&network=testnet", &mockSource{}, http.StatusInternalServerError, "Alchemy URL not configured"},
		{"upstream", "/api/tokens?address=0x1", &mockSource{failAll: true}, http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := get(t, newTestRouter(tt.src, nil, true), tt.target)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			msg, ok := body["error"].(string)
			if !ok || msg == "" {
				t.Fatalf("missing error message: %v", body)
			}
			if tt.msg != "" && msg != tt.msg {
				t.Errorf("error = %q, want %q", msg, tt.msg)
			}
		})
	}
}

func TestNFTs(t *testing.T) {
	rec, body := get(t, newTestRouter(&mockSource{}, nil, true), "/api/nfts?address=0xabc")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	nfts := body["nfts"].([]any)
	if len(nfts) != 1 {
		t.Fatalf("nfts = %v", nfts)
	}
	nft := nfts[0].(map[string]any)
	if nft["tokenId"] != "42" || nft["contractAddress"] != "0xcc" || nft["name"] != "" {
		t.Errorf("unexpected nft: %v", nft)
	}
}

func TestTxs(t *testing.T) {
	rec, body := get(t, newTestRouter(&mockSource{}, nil, true), "/api/txs?address=0xabc")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if txs := body["txs"].([]any); len(txs) != 2 {
		t.Errorf("want one transfer per direction, got %v", txs)
	}
}

func TestBalance(t *testing.T) {
	rec, body := get(t, newTestRouter(&mockSource{}, nil, true), "/api/balance?address=0xABC&network=testnet")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["network"] != "testnet" || body["address"] != "0xabc" {
		t.Errorf("unexpected body: %v", body)
	}
	if native := body["native"].(map[string]any); native["wei"] != "1" {
		t.Errorf("native = %v", native)
	}
}

func TestAvailability(t *testing.T) {
	avail := &mockAvailability{}
	h := newTestRouter(&mockSource{}, avail, true)

	rec, body := get(t, h, "/api/rns/availability?name=foo-bar.rsk")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["available"] != true || body["rifPricePerYear"] != "2" || body["network"] != "mainnet" {
		t.Errorf("unexpected body: %v", body)
	}

	rec, body = get(t, h, "/api/rns/availability?name=Foo_Bar.rsk")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid name: status = %d", rec.Code)
	}
	if body["error"] != "Invalid .rsk name" {
		t.Errorf("invalid name: error = %v", body["error"])
	}
	if avail.calls != 1 {
		t.Errorf("invalid name must not reach the lookup, calls = %d", avail.calls)
	}
}

func TestAvailability_UpstreamFailure(t *testing.T) {
	avail := &mockAvailability{err: domain.ErrUpstream}
	rec, _ := get(t, newTestRouter(&mockSource{}, avail, true), "/api/rns/availability?name=alice.rsk")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestDashboard(t *testing.T) {
	h := newTestRouter(&mockSource{failAll: true}, nil, true)

	rec, body := get(t, h, "/api/dashboard?name=alice.rsk")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["address"] != "0xabc" {
		t.Errorf("address = %v", body["address"])
	}
	if tokens := body["tokens"].(map[string]any); tokens["error"] == nil {
		t.Errorf("token failure should be reported in its section: %v", tokens)
	}
	if nfts := body["nfts"].(map[string]any); nfts["error"] != nil {
		t.Errorf("nft section should be unaffected: %v", nfts)
	}

	rec, _ = get(t, h, "/api/dashboard?name=missing.rsk")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("unregistered: status = %d", rec.Code)
	}
	rec, _ = get(t, h, "/api/dashboard?name=bad_name.rsk")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid name: status = %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	rec, body := get(t, newTestRouter(&mockSource{}, nil, true), "/health")
	if rec.Code != http.StatusOK || body["status"] != "healthy" {
		t.Errorf("healthy: %d %v", rec.Code, body)
	}

	rec, body = get(t, newTestRouter(&mockSource{}, nil, false), "/health")
	if rec.Code != http.StatusServiceUnavailable || body["status"] != "critical" {
		t.Errorf("critical: %d %v", rec.Code, body)
	}

	_, body = get(t, newTestRouter(&mockSource{}, nil, false), "/health/detailed")
	providers := body["providers"].(map[string]any)
	if _, ok := providers["alchemy-mainnet"]; !ok {
		t.Errorf("detailed report misses provider: %v", body)
	}
}

func TestRequestID(t *testing.T) {
	h := newTestRouter(&mockSource{}, nil, true)

	rec, _ := get(t, h, "/health")
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("request id not assigned")
	}

	const id = "8f14e45f-ceea-467f-a0e6-2b7d1e6a4c35"
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, id)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}
}
