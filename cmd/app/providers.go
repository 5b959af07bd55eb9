package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dotazy/faqbot/internal/domain/chat"
	"github.com/dotazy/faqbot/internal/domain/corpus"
	"github.com/dotazy/faqbot/internal/domain/interaction"
	"github.com/dotazy/faqbot/internal/infra/config"
	"github.com/dotazy/faqbot/internal/infra/corpusfile"
	"github.com/dotazy/faqbot/internal/infra/interactionstore"
)

func provideChatConfig(cfg *config.Config) chat.Config {
	return chat.Config{
		Threshold:   cfg.Matcher.Threshold,
		Fallback:    cfg.Matcher.Fallback,
		RecentLimit: cfg.Matcher.RecentLimit,
	}
}

// provideCorpus loads the FAQ source once at startup. A missing or
// malformed file is logged and the service keeps running in
// always-fallback mode on the empty corpus.
func provideCorpus(cfg *config.Config, logger *slog.Logger) *corpus.Corpus {
	c, err := corpusfile.Load(cfg.Corpus.Path)
	if err != nil {
		logger.Error("corpus load failed, serving fallback only", "path", cfg.Corpus.Path, "error", err)
		return c
	}
	logger.Info("corpus loaded", "path", cfg.Corpus.Path, "entries", c.Len())
	return c
}

// provideInteractionStore selects the configured backend. Backends that
// cannot be opened degrade to the in-memory store with a logged error so
// the service stays up; per-request storage failures still surface to
// callers through the Store contract.
func provideInteractionStore(cfg *config.Config, logger *slog.Logger) interaction.Store {
	switch cfg.Storage.Backend {
	case config.BackendCSV:
		store, err := interactionstore.NewCSVFileStore(cfg.Storage.CSV.Path)
		if err != nil {
			logger.Error("csv interaction store unavailable, using memory store", "path", cfg.Storage.CSV.Path, "error", err)
			return interactionstore.NewMemoryStore()
		}
		logger.Info("csv interaction store enabled", "path", cfg.Storage.CSV.Path)
		return store
	case config.BackendGithub:
		logger.Info("github interaction store enabled",
			"owner", cfg.Storage.Github.Owner, "repo", cfg.Storage.Github.Repo, "path", cfg.Storage.Github.Path)
		return interactionstore.NewGithubStore(interactionstore.GithubConfig{
			BaseURL: cfg.Storage.Github.APIBaseURL,
			Owner:   cfg.Storage.Github.Owner,
			Repo:    cfg.Storage.Github.Repo,
			Path:    cfg.Storage.Github.Path,
			Branch:  cfg.Storage.Github.Branch,
			Token:   cfg.Storage.Github.Token,
		})
	case config.BackendSQLite:
		store, err := interactionstore.OpenSQLite(cfg.Storage.SQLite.Path)
		if err != nil {
			logger.Error("sqlite interaction store unavailable, using memory store", "path", cfg.Storage.SQLite.Path, "error", err)
			return interactionstore.NewMemoryStore()
		}
		logger.Info("sqlite interaction store enabled", "path", cfg.Storage.SQLite.Path)
		return store
	case config.BackendPostgres:
		store := providePostgresStore(cfg, logger)
		if store == nil {
			return interactionstore.NewMemoryStore()
		}
		return store
	default:
		logger.Info("memory interaction store enabled")
		return interactionstore.NewMemoryStore()
	}
}

func providePostgresStore(cfg *config.Config, logger *slog.Logger) interaction.Store {
	poolConfig, err := pgxpool.ParseConfig(cfg.Storage.Postgres.DSN)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory store", "error", err)
		return nil
	}
	if cfg.Storage.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Storage.Postgres.MaxConns
	}
	if cfg.Storage.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Storage.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory store", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory store", "error", err)
		pool.Close()
		return nil
	}
	store := interactionstore.NewPostgresStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("postgres schema bootstrap failed, using memory store", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres interaction store enabled")
	return store
}
