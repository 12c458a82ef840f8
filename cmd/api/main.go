// Command api runs the HTTP gateway between the Newsdesk web client, the
// chat backend, and the platform content API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/newsdesk-hq/newsdesk-go/internal/api"
	"github.com/newsdesk-hq/newsdesk-go/internal/assistant"
	"github.com/newsdesk-hq/newsdesk-go/internal/chat"
	"github.com/newsdesk-hq/newsdesk-go/internal/config"
	"github.com/newsdesk-hq/newsdesk-go/internal/observability"
	"github.com/newsdesk-hq/newsdesk-go/internal/platform"
	"github.com/newsdesk-hq/newsdesk-go/internal/ratelimit"
	"github.com/newsdesk-hq/newsdesk-go/internal/session"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(cfg.LogLevel)

	if cfg.OTelEnabled {
		shutdown, err := observability.InitTracer(context.Background(), "api")
		if err != nil {
			logger.Error("otel init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		logger.Error("metrics init failed", "error", err)
	}

	var backend chat.Backend
	if cfg.Mode == config.ModeStub {
		backend = chat.NewStubBackend()
		logger.Info("using scripted stub chat backend")
	} else {
		backend = chat.NewClient(cfg.ChatBackendURL)
	}

	platformURL := cfg.PlatformURL
	if platformURL == "" {
		platformURL = "http://localhost:3000"
	}

	overrides, err := config.LoadRoutes(cfg.RoutesFile)
	if err != nil {
		logger.Error("routes file error", "error", err)
		os.Exit(1)
	}

	store := session.NewStore(session.StoreConfig{
		Chat:     backend,
		Platform: platform.NewClient(platformURL),
		Routes:   assistant.NewRouteTable(overrides),
		Metrics:  metrics,
		Logger:   logger,
		TTL:      cfg.SessionTTL,
	})

	srv, err := api.New(store, api.Options{
		CORSOrigins: cfg.CORSOrigins,
		OIDC: api.OIDCConfig{
			IssuerURL: cfg.OIDCIssuer,
			Audience:  cfg.OIDCAudience,
			Enabled:   cfg.OIDCEnabled(),
		},
		Limiter: ratelimit.NewTurnLimiter(cfg.TurnsPerMinute, cfg.TurnBurst),
		Budget:  turnBudget(cfg),
	})
	if err != nil {
		logger.Error("server init failed", "error", err)
		os.Exit(1)
	}

	var handler http.Handler = srv
	if cfg.OTelEnabled {
		handler = otelhttp.NewHandler(handler, "newsdesk-api")
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting API server", "addr", httpServer.Addr, "mode", cfg.Mode, "oidc_enabled", cfg.OIDCEnabled())
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// turnBudget builds the per-role budget, or nil when disabled.
func turnBudget(cfg config.Config) *ratelimit.TurnBudget {
	if cfg.TurnBudget <= 0 {
		return nil
	}
	return ratelimit.NewTurnBudget(cfg.TurnBudget, cfg.BudgetWindow)
}
