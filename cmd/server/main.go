package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/boardfund/internal/auth"
	"github.com/mmynk/boardfund/internal/config"
	"github.com/mmynk/boardfund/internal/metrics"
	"github.com/mmynk/boardfund/internal/middleware"
	"github.com/mmynk/boardfund/internal/registry"
	"github.com/mmynk/boardfund/internal/service"
	"github.com/mmynk/boardfund/internal/storage/sqlite"
	"github.com/mmynk/boardfund/pkg/fundapi"
	"github.com/mmynk/boardfund/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx := context.Background()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	if err := prepareAssets(ctx, store, cfg); err != nil {
		return err
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	reg := registry.New(store, store, m)
	if err := reg.Load(ctx); err != nil {
		return fmt.Errorf("failed to restore funds: %w", err)
	}
	if err := m.WatchDeployedFunds(func() int { return len(reg.GetDeployedFunds()) }); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	interceptors := connect.WithInterceptors(
		m.Interceptor(),
		middleware.Authenticate(jwtManager, fundapi.PublicProcedures...),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()

	// Register Connect services
	fundPath, fundHandler := fundapi.NewFundServiceHandler(service.NewFundService(reg), interceptors)
	mux.Handle(fundPath, fundHandler)

	ledgerPath, ledgerHandler := fundapi.NewLedgerServiceHandler(service.NewLedgerService(store), interceptors)
	mux.Handle(ledgerPath, ledgerHandler)

	mux.Handle(cfg.MetricsPath, promhttp.Handler())

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(loggedHandler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Connect server starting",
		"address", addr,
		"url", fmt.Sprintf("http://localhost%s", addr),
		"assets", cfg.Assets,
		"funds", len(reg.GetDeployedFunds()),
	)
	return http.ListenAndServe(addr, h2cHandler)
}

// prepareAssets registers every configured asset and credits each seed
// account that still holds nothing.
func prepareAssets(ctx context.Context, store *sqlite.SQLiteStore, cfg config.Config) error {
	for _, asset := range cfg.Assets {
		if err := store.CreateAsset(ctx, asset); err != nil {
			return err
		}
	}

	for _, seed := range cfg.Seed {
		l, err := store.AssetLedger(ctx, seed.Asset)
		if err != nil {
			return err
		}
		balance, err := l.BalanceOf(ctx, seed.Account)
		if err != nil {
			return err
		}
		if !balance.IsZero() {
			continue
		}
		if err := l.Mint(ctx, seed.Account, seed.Amount); err != nil {
			return fmt.Errorf("failed to seed %s: %w", seed.Account, err)
		}
		slog.Debug("Seeded balance", "asset", seed.Asset, "account", seed.Account, "amount", seed.Amount)
	}
	return nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
