package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/gyansetu/internal/app"
	"github.com/abhisek/gyansetu/internal/backend"
	"github.com/abhisek/gyansetu/internal/config"
	"github.com/abhisek/gyansetu/internal/portal"
	"github.com/abhisek/gyansetu/internal/session"
)

// runApp loads configuration, builds the backend client and session store,
// restores any persisted session, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := backend.New(backend.Config{
		BaseURL: cfg.BaseURL,
		AnonKey: cfg.AnonKey,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}

	statePath, err := resolveStatePath(cmd)
	if err != nil {
		return fmt.Errorf("resolve session path: %w", err)
	}

	store := session.NewStore(client, statePath)
	if err := store.Start(context.Background()); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	repo := portal.NewRESTRepo(client, store)

	return app.Run(app.Options{
		Store: store,
		Repo:  repo,
	})
}

// resolveStatePath returns the session file path using --session-file
// (highest priority), then GYANSETU_SESSION, then the default XDG path.
func resolveStatePath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("session-file"); p != "" {
		return p, nil
	}
	return session.DefaultStatePath()
}
