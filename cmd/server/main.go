package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/learnbharat/learnbharat-ai/internal/ai"
	"github.com/learnbharat/learnbharat-ai/internal/planner"
	"github.com/learnbharat/learnbharat-ai/internal/platform/cache"
	"github.com/learnbharat/learnbharat-ai/internal/platform/config"
	"github.com/learnbharat/learnbharat-ai/internal/platform/database"
	"github.com/learnbharat/learnbharat-ai/internal/syllabus"
	"github.com/learnbharat/learnbharat-ai/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	slog.SetDefault(newLogger(cfg.Log, os.Stdout))

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var checks []web.Check

	var db *database.DB
	if cfg.HasDatabase() {
		db, err = database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return err
		}
		defer db.Close()
		if cfg.Database.Migrate {
			if err := db.Migrate(ctx); err != nil {
				return err
			}
		}
		checks = append(checks, web.Check{Name: "database", Func: db.HealthCheck})
	}

	var kv *cache.Cache
	if cfg.HasCache() {
		kv, err = cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return err
		}
		defer kv.Close()
		checks = append(checks, web.Check{Name: "cache", Func: kv.HealthCheck})
	}

	catalog, err := loadCatalog(ctx, cfg.Catalog, db)
	if err != nil {
		return err
	}

	var events planner.EventLogger = planner.NopEventLogger{}
	if db != nil {
		events = planner.NewPostgresEventLogger(db.Pool)
	}

	provider := newProvider(cfg.AI, kv)
	if provider == nil {
		slog.Warn("no generation provider configured, every plan uses the offline fallback")
	} else {
		slog.Info("generation provider ready", "provider", provider.Name())
	}

	engine := planner.NewEngine(planner.EngineConfig{
		Catalog:   catalog,
		Provider:  provider,
		Events:    events,
		Model:     cfg.AI.Model,
		MaxTokens: cfg.AI.MaxTokens,
		Timeout:   cfg.AI.Timeout,
	})

	app, err := web.New(web.Config{Planner: engine, Checks: checks})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.AI.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// loadCatalog builds the syllabus catalog from the configured source. An
// empty courses table is seeded with the builtin courses.
func loadCatalog(ctx context.Context, cfg config.CatalogConfig, db *database.DB) (syllabus.Catalog, error) {
	switch cfg.Source {
	case config.CatalogYAML:
		return syllabus.LoadYAML(cfg.Path)
	case config.CatalogPostgres:
		if db == nil {
			return nil, fmt.Errorf("catalog source %q needs a database", cfg.Source)
		}
		c, err := syllabus.LoadPostgres(ctx, db.Pool)
		if err != nil {
			return nil, err
		}
		if c.Len() > 0 {
			return c, nil
		}
		builtin := syllabus.Builtin()
		if err := syllabus.SavePostgres(ctx, db.Pool, builtin.Courses()); err != nil {
			return nil, fmt.Errorf("seeding courses: %w", err)
		}
		slog.Info("seeded empty courses table", "courses", builtin.Len())
		return builtin, nil
	default:
		return syllabus.Builtin(), nil
	}
}

// newProvider returns the single configured provider, wrapped in a token
// budget when one is set. It returns nil for the offline provider.
func newProvider(cfg config.AIConfig, kv *cache.Cache) ai.Provider {
	client := &http.Client{Timeout: cfg.Timeout}

	var p ai.Provider
	switch cfg.Provider {
	case config.ProviderOpenAI:
		opts := []ai.OpenAIOption{
			ai.WithHTTPClient(client),
			ai.WithModel(cfg.Model),
			ai.WithMaxTokens(cfg.MaxTokens),
		}
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, ai.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		p = ai.NewOpenAIProvider(cfg.OpenAI.APIKey, opts...)
	case config.ProviderOllama:
		p = ai.NewOllamaProvider(cfg.Ollama.URL,
			ai.WithOllamaHTTPClient(client),
			ai.WithOllamaModel(cfg.Model),
			ai.WithOllamaMaxTokens(cfg.MaxTokens),
		)
	default:
		return nil
	}

	if cfg.DailyTokenBudget <= 0 {
		return p
	}
	var budget ai.BudgetChecker = ai.NewInMemoryBudget(cfg.DailyTokenBudget)
	if kv != nil {
		budget = ai.NewRedisBudget(kv.Client, cfg.DailyTokenBudget)
	}
	return ai.Budgeted(p, budget, p.Name())
}
