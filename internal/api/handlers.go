package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vietddude/rnsdash/internal/aggregate"
	"github.com/vietddude/rnsdash/internal/core/domain"
	"github.com/vietddude/rnsdash/internal/dashboard"
	"github.com/vietddude/rnsdash/internal/health"
)

// Availability answers registration availability of a name.
type Availability interface {
	Availability(ctx context.Context, name domain.Name) (domain.Availability, error)
}

// Deps are the collaborators behind the HTTP handlers.
type Deps struct {
	Networks     map[domain.Network]dashboard.Network
	Availability Availability
	Tokens       *aggregate.Tokens
	NFTs         *aggregate.NFTs
	Txs          *aggregate.Transactions
	Dashboard    *dashboard.Dashboard
	Health       *health.Monitor
}

// Handlers implements the HTTP endpoints.
type Handlers struct {
	deps Deps
}

// NewHandlers creates handlers over deps.
func NewHandlers(deps Deps) *Handlers {
	return &Handlers{deps: deps}
}

// BalanceResponse is the body of /api/balance.
type BalanceResponse struct {
	Address string                  `json:"address"`
	Network domain.Network          `json:"network"`
	Native  domain.NativeBalance    `json:"native"`
	Tokens  []domain.CuratedBalance `json:"tokens"`
}

// HandleTokens lists fungible token holdings of an address.
func (h *Handlers) HandleTokens(w http.ResponseWriter, r *http.Request) {
	address, network, src, err := h.sourceFor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tokens, err := h.deps.Tokens.Holdings(r.Context(), src, network, address)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}

// HandleNFTs lists NFT holdings of an address.
func (h *Handlers) HandleNFTs(w http.ResponseWriter, r *http.Request) {
	address, _, src, err := h.sourceFor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	nfts, err := h.deps.NFTs.Holdings(r.Context(), src, address)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"nfts": nfts})
}

// HandleTxs lists the most recent transfers of an address.
func (h *Handlers) HandleTxs(w http.ResponseWriter, r *http.Request) {
	address, _, src, err := h.sourceFor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	txs, err := h.deps.Txs.Recent(r.Context(), src, address)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"txs": txs})
}

// HandleBalance returns the native balance plus the curated token list.
func (h *Handlers) HandleBalance(w http.ResponseWriter, r *http.Request) {
	address, network, err := addressAndNetwork(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	chain := h.deps.Networks[network].Chain
	if chain == nil {
		writeError(w, r, domain.ErrNotConfigured)
		return
	}

	native, err := chain.NativeBalance(r.Context(), address)
	if err != nil {
		writeError(w, r, err)
		return
	}
	curated, err := chain.CuratedBalances(r.Context(), address)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{
		Address: address,
		Network: network,
		Native:  native,
		Tokens:  curated,
	})
}

// HandleAvailability reports whether a name can be registered.
func (h *Handlers) HandleAvailability(w http.ResponseWriter, r *http.Request) {
	name, err := domain.ParseName(r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.deps.Availability == nil {
		writeError(w, r, domain.ErrNotConfigured)
		return
	}
	a, err := h.deps.Availability.Availability(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleDashboard resolves a name and returns every section of its view.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	network, err := domain.ParseNetwork(r.URL.Query().Get("network"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := h.deps.Dashboard.Lookup(r.Context(), r.URL.Query().Get("name"), network)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleHealth returns the overall status; 503 when critical.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := health.StatusHealthy
	if h.deps.Health != nil {
		status = h.deps.Health.CheckHealth(r.Context()).SystemStatus
	}
	code := http.StatusOK
	if status == health.StatusCritical {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{"status": status})
}

// HandleHealthDetailed returns the per-provider report.
func (h *Handlers) HandleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	report := health.HealthReport{SystemStatus: health.StatusHealthy}
	if h.deps.Health != nil {
		report = h.deps.Health.CheckHealth(r.Context())
	}
	writeJSON(w, http.StatusOK, report)
}

// sourceFor validates the request and picks the data provider of its network.
func (h *Handlers) sourceFor(r *http.Request) (string, domain.Network, dashboard.Source, error) {
	address, network, err := addressAndNetwork(r)
	if err != nil {
		return "", "", nil, err
	}
	src := h.deps.Networks[network].Source
	if src == nil {
		return "", "", nil, domain.ErrNotConfigured
	}
	return address, network, src, nil
}

func addressAndNetwork(r *http.Request) (string, domain.Network, error) {
	q := r.URL.Query()
	address, err := domain.NormalizeAddress(q.Get("address"))
	if err != nil {
		return "", "", err
	}
	network, err := domain.ParseNetwork(q.Get("network"))
	if err != nil {
		return "", "", err
	}
	return address, network, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if domain.IsValidation(err) {
		status = http.StatusBadRequest
	} else {
		slog.Error("Request failed", "path", r.URL.Path, "error", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeJSON(w, status, map[string]string{"error": errorMessage(err)})
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAddress):
		return "Missing address"
	case errors.Is(err, domain.ErrInvalidName):
		return "Invalid .rsk name"
	case errors.Is(err, domain.ErrNotConfigured):
		return "Alchemy URL not configured"
	}
	return err.Error()
}
