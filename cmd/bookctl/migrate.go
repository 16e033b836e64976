package main

import (
	"github.com/spf13/cobra"

	"github.com/ashraf-g/book-review-api/util/database"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect the embedded schema migrations",
	}
	for _, sub := range []struct{ use, short string }{
		{"up", "Apply all pending migrations"},
		{"down", "Roll back the latest migration"},
		{"status", "Print applied and pending migrations"},
		{"version", "Print the current schema version"},
	} {
		command := sub.use
		cmd.AddCommand(&cobra.Command{
			Use:   command,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, log, err := connect(cmd.Context())
				if err != nil {
					return err
				}
				defer db.Close()

				log.Info("running migrations", "command", command)
				if err := database.Migrate(cmd.Context(), db, command); err != nil {
					return err
				}
				log.Info("migrations done", "command", command)
				return nil
			},
		})
	}
	return cmd
}
