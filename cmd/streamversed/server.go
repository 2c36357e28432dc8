package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/streamverse/internal/account"
	v1 "github.com/vmunix/streamverse/internal/api/v1"
	"github.com/vmunix/streamverse/internal/auth"
	"github.com/vmunix/streamverse/internal/catalog"
	"github.com/vmunix/streamverse/internal/config"
	"github.com/vmunix/streamverse/internal/database"
	"github.com/vmunix/streamverse/internal/embed"
	"github.com/vmunix/streamverse/internal/events"
	"github.com/vmunix/streamverse/internal/lists"
	"github.com/vmunix/streamverse/internal/server"
	"github.com/vmunix/streamverse/internal/tmdb"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer's Flush.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func embedConfig(cfg config.EmbedConfig) embed.Config {
	out := embed.Config{
		ProviderURL:    cfg.ProviderURL,
		MovieTemplates: cfg.MovieTemplates,
		TVTemplates:    cfg.TVTemplates,
	}
	if len(out.MovieTemplates) == 0 {
		out.MovieTemplates = []string{embed.DefaultMovieURL}
	}
	if len(out.TVTemplates) == 0 {
		out.TVTemplates = []string{embed.DefaultTVURL}
	}
	return out
}

func runServer(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open database (runs migrations)
	db, err := database.Open(cfg.Database.Driver, cfg.Database.Source())
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	// === Events ===
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger.With("component", "bus"))
	defer func() { _ = bus.Close() }()

	// === Stores ===
	accounts := account.NewStore(db)
	listStore := lists.NewSQLStore(db)

	watchLater := lists.NewCache(listStore,
		lists.WithTTL(cfg.Lists.CacheTTL),
		lists.WithLogger(logger.With("component", "watchlater")),
		lists.WithPublisher(bus),
	)
	defer watchLater.Wait()
	toggler := lists.NewToggler(watchLater, bus, logger)
	defer toggler.Wait()
	history := lists.NewHistory(listStore, cfg.Lists.HistoryLimit, logger)

	sessions, err := auth.OpenBoltSessions(cfg.Auth.SessionDB)
	if err != nil {
		return err
	}
	defer func() { _ = sessions.Close() }()

	// === Auth ===
	authOpts := []auth.ManagerOption{
		auth.WithSessionTTL(cfg.Auth.SessionTTL),
		auth.WithManagerLogger(logger),
		// Warm the watch-later list so the first indicator check is a cache hit.
		auth.WithLoginHook(func(ctx context.Context, id auth.Identity) {
			watchLater.PreloadAsync(ctx, id.ID)
		}),
	}
	if o := cfg.Auth.OIDC; o != nil {
		sso, err := auth.NewOIDC(ctx, auth.OIDCConfig{
			Issuer:       o.Issuer,
			ClientID:     o.ClientID,
			ClientSecret: o.ClientSecret,
			RedirectURL:  o.RedirectURL,
		})
		if err != nil {
			return err
		}
		authOpts = append(authOpts, auth.WithSSO(sso))
	}
	authManager := auth.NewManager(accounts, sessions, authOpts...)
	secureCookies := cfg.Auth.OIDC != nil && strings.HasPrefix(cfg.Auth.OIDC.RedirectURL, "https://")

	// === Clients ===
	tmdbClient := tmdb.NewClient(cfg.Catalog.APIKey,
		tmdb.WithBaseURL(cfg.Catalog.BaseURL),
		tmdb.WithCacheTTL(cfg.Catalog.CacheTTL),
	)
	catalogSvc := catalog.NewService(tmdbClient, catalog.NewCache(db), cfg.Catalog.CacheTTL, logger)
	resolver := embed.NewResolver(embedConfig(cfg.Embed), embed.WithLogger(logger.With("component", "embed")))

	// === HTTP Setup ===
	mux := http.NewServeMux()

	apiV1, err := v1.New(v1.ServerDeps{
		Auth:       authManager,
		Accounts:   accounts,
		WatchLater: watchLater,
		Toggler:    toggler,
		History:    history,
		Catalog:    catalogSvc,
		Streams:    resolver,
		Bus:        bus,
		EventLog:   eventLog,
		Logger:     logger,
		Version:    version,

		SecureCookies: secureCookies,
	})
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	apiV1.RegisterRoutes(mux)

	// === Background Jobs ===
	runner := server.NewRunner(server.Config{Interval: cfg.Server.PruneInterval, RunAtStart: true},
		logger.With("component", "runner"),
		server.Task{Name: "catalog_cache", Run: catalogSvc.Prune},
		server.Task{Name: "tmdb_cache", Run: func(context.Context) (int64, error) {
			return int64(tmdbClient.Prune()), nil
		}},
		server.Task{Name: "event_log", Run: func(ctx context.Context) (int64, error) {
			return eventLog.Prune(ctx, cfg.Server.EventRetention)
		}},
		server.Task{Name: "sessions", Run: server.Int(authManager.Cleanup)},
	)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Driver,
		"sso", authManager.SSOEnabled(),
		"list_cache_ttl", cfg.Lists.CacheTTL,
		"log_level", cfg.Server.LogLevel,
	)

	// === HTTP Server ===
	srv := &http.Server{
		Addr:              addr,
		Handler:           logRequests(mux, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := runner.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		// Close the bus first so open event streams end.
		_ = bus.Close()

		// Graceful HTTP shutdown with 30s timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
