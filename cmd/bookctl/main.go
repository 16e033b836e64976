// Command bookctl runs schema migrations and seeds demo data.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ashraf-g/book-review-api/config"
	"github.com/ashraf-g/book-review-api/util/database"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "bookctl",
		Short:        "Admin tasks for the book review API",
		SilenceUsage: true,
	}
	root.AddCommand(migrateCmd(), seedCmd())
	return root
}

// connect loads config the same way the server does and opens the pool.
func connect(ctx context.Context) (*database.DB, *slog.Logger, error) {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg, err := config.Load()
	if err != nil {
		return nil, log, err
	}
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, log, err
	}
	return db, log, nil
}
