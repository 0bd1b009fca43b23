package main

import (
	"database/sql"

	_ "github.com/jackc/pgx/v4/stdlib" // database/sql driver: pgx
	"github.com/spf13/cobra"

	"github.com/metagram-net/pgmt"
)

func migrateCmd(cli *CLI) *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "migrate --url <URL> <DIR>...",
		Short: "Run database migrations from one or more directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, dirs []string) error {
			ctx := cmd.Context()

			db, err := sql.Open("pgx", url)
			if err != nil {
				cli.Exitf(1, "open database connection: %s", err)
			}
			defer db.Close()

			placeholders := collectPlaceholders()

			if err := pgmt.Migrate(ctx, cli, db, dirs, placeholders); err != nil {
				cli.Exitf(1, "run migrations: %s", err)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&url, "url", "u", "", "PostgreSQL connection URL")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
