package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vietddude/rnsdash/internal/aggregate"
	"github.com/vietddude/rnsdash/internal/api"
	"github.com/vietddude/rnsdash/internal/core/config"
	"github.com/vietddude/rnsdash/internal/core/domain"
	"github.com/vietddude/rnsdash/internal/dashboard"
	"github.com/vietddude/rnsdash/internal/health"
	"github.com/vietddude/rnsdash/internal/infra/alchemy"
	"github.com/vietddude/rnsdash/internal/infra/chain/rsk"
	"github.com/vietddude/rnsdash/internal/infra/coingecko"
	redisclient "github.com/vietddude/rnsdash/internal/infra/redis"
	"github.com/vietddude/rnsdash/internal/infra/rpc/budget"
)

// App owns every long-lived component and the HTTP server.
type App struct {
	networks     map[domain.Network]dashboard.Network
	availability *rsk.Resolver
	dashboard    *dashboard.Dashboard
	healthMon    *health.Monitor
	server       *api.Server
	providers    *alchemy.Registry
	nodes        []*rsk.Client
	coingecko    *coingecko.Client
	redisClient  *redisclient.Client
	log          *slog.Logger
}

// NewApp builds the application from cfg. Dialing is lazy, so no upstream
// is contacted here except Redis when it is enabled.
func NewApp(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	a := &App{
		networks: make(map[domain.Network]dashboard.Network),
		log:      slog.Default(),
	}

	// 1. Call budget
	var counter budget.Counter = budget.NewMemoryCounter()
	if cfg.Budget.Redis.Enabled() {
		rc, err := redisclient.NewClient(cfg.Budget.Redis)
		if err != nil {
			slog.Warn("Failed to connect to Redis, using in-memory budget", "error", err)
		} else {
			a.redisClient = rc
			counter = budget.NewRedisCounter(rc)
		}
	}
	tracker := budget.NewTracker(counter, cfg.Budget.DailyQuota)

	// 2. Per-network providers, nodes and resolvers
	timeout := cfg.Upstream.Timeout
	var clients []*alchemy.Client
	resolvers := make(map[domain.Network]*rsk.Resolver)
	for _, n := range domain.Networks {
		nc := cfg.Networks.For(n)

		node, err := rsk.Dial(ctx, n, nc.RPCURL, timeout, nc.Tokens)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to init %s node: %w", n, err)
		}
		a.nodes = append(a.nodes, node)
		paths := []rsk.Path{{Name: "node", Caller: node.Caller()}}

		nw := dashboard.Network{Chain: node}
		client, err := alchemy.NewClient(ctx, n, nc.DataProviderURL(), timeout, tracker)
		switch {
		case err == nil:
			clients = append(clients, client)
			paths = append(paths, rsk.Path{Name: "provider", Caller: rsk.NewRawCaller(client.Raw())})
			nw.Source = client
		case errors.Is(err, domain.ErrNotConfigured):
			slog.Warn("Data provider not configured", "network", n)
		default:
			a.Close()
			return nil, fmt.Errorf("failed to init %s data provider: %w", n, err)
		}

		resolver := rsk.NewResolver(n, nc.RegistryAddress, paths...)
		resolvers[n] = resolver
		nw.Resolver = resolver
		a.networks[n] = nw
		slog.Info("Network initialized", "network", n, "rpc", nc.RPCURL, "provider", nw.Source != nil)
	}
	a.providers = alchemy.NewRegistry(clients...)
	a.availability = resolvers[domain.NetworkMainnet]

	// 3. Aggregators and orchestration
	a.coingecko = coingecko.NewClient(cfg.Upstream.CoingeckoURL, cfg.Upstream.CoingeckoPlatform, timeout)
	tokens := aggregate.NewTokens(a.coingecko, cfg.Limits)
	nfts := aggregate.NewNFTs(cfg.Limits)
	txs := aggregate.NewTransactions(cfg.Limits)
	a.dashboard = dashboard.New(a.networks, tokens, nfts, txs)

	// 4. Health and HTTP
	sources := []health.Source{a.coingecko}
	for _, c := range a.providers.Clients() {
		sources = append(sources, c)
	}
	a.healthMon = health.NewMonitor(tracker, sources...)

	handlers := api.NewHandlers(api.Deps{
		Networks:     a.networks,
		Availability: a.availability,
		Tokens:       tokens,
		NFTs:         nfts,
		Txs:          txs,
		Dashboard:    a.dashboard,
		Health:       a.healthMon,
	})
	a.server = api.NewServer(cfg.Server, handlers)

	return a, nil
}

// Dashboard returns the orchestrator, for one-shot commands.
func (a *App) Dashboard() *dashboard.Dashboard {
	return a.dashboard
}

// Availability returns the mainnet availability checker.
func (a *App) Availability() *rsk.Resolver {
	return a.availability
}

// Health returns the current health report.
func (a *App) Health(ctx context.Context) health.HealthReport {
	return a.healthMon.CheckHealth(ctx)
}

// Start starts the HTTP server in the background.
func (a *App) Start(ctx context.Context) error {
	go func() {
		if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("HTTP server failed", "error", err)
		}
	}()
	a.log.Info("HTTP server listening", "addr", a.server.Addr())
	return nil
}

// Stop shuts the server down and releases upstream connections.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping rnsdash...")
	err := a.server.Stop(ctx)
	a.Close()
	return err
}

// Close releases upstream connections without touching the server.
func (a *App) Close() {
	for _, n := range a.nodes {
		n.Close()
	}
	if a.providers != nil {
		a.providers.Close()
	}
	if a.coingecko != nil {
		a.coingecko.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Warn("Failed to close Redis", "error", err)
		}
	}
}
