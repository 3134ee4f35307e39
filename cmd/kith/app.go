package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrWong99/kith/internal/config"
	"github.com/MrWong99/kith/internal/ingest"
	"github.com/MrWong99/kith/internal/parse"
	"github.com/MrWong99/kith/internal/resolve"
	"github.com/MrWong99/kith/internal/review"
	"github.com/MrWong99/kith/internal/store"
	"github.com/MrWong99/kith/internal/transcribe"
)

// app bundles the per-invocation state every subcommand needs: loaded
// config, the open database, and the bootstrapped owner.
type app struct {
	cfg     *config.Config
	db      *store.DB
	ownerID string
}

// openApp loads configuration, installs the default logger, and opens the
// database. The caller must call close.
func openApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel.Slog(),
	}))
	slog.SetDefault(logger)

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	ownerID, err := db.DefaultOwner(cmd.Context())
	if err != nil {
		db.Close()
		return nil, err
	}

	return &app{cfg: cfg, db: db, ownerID: ownerID}, nil
}

func (a *app) close() {
	a.db.Close()
}

// pipeline assembles the ingestion flow. transcriber may be nil for
// text-only logging.
func (a *app) pipeline(transcriber transcribe.Transcriber) *ingest.Pipeline {
	return ingest.New(ingest.Deps{
		Parser:       parse.New(a.cfg.OllamaHost, a.cfg.Model),
		Transcriber:  transcriber,
		People:       a.db,
		Interactions: a.db,
		Corrections:  a.db,
		Resolver:     resolve.New(),
		Prompter:     review.NewTerminalPrompter(os.Stdin, os.Stdout),
		OwnerID:      a.ownerID,
	})
}

// run wraps a subcommand body with app setup and teardown.
func run(cmd *cobra.Command, body func(ctx context.Context, a *app) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	return body(cmd.Context(), a)
}
