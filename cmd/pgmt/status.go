package main

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib" // database/sql driver: pgx
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/metagram-net/pgmt"
)

func statusCmd(cli *CLI) *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "status --url <URL>",
		Short: "Show the recorded migration history",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			ctx := cmd.Context()

			db, err := sql.Open("pgx", url)
			if err != nil {
				cli.Exitf(1, "open database connection: %s", err)
			}
			defer db.Close()

			store := pgmt.NewHistoryStore()
			if err := store.EnsureExists(ctx, db); err != nil {
				cli.Exitf(1, "ensure schema history table: %s", err)
			}
			rows, err := store.ReadAll(ctx, db)
			if err != nil {
				cli.Exitf(1, "read schema history: %s", err)
			}

			t := tablewriter.NewWriter(cli.stdout)
			t.SetHeader([]string{"Rank", "Version", "Type", "Script", "Checksum", "Installed On", "Success"})
			for _, r := range rows {
				version := ""
				if r.Version != nil {
					version = *r.Version
				}
				checksum := ""
				if r.Checksum != nil {
					checksum = fmt.Sprintf("%d", *r.Checksum)
				}
				t.Append([]string{
					fmt.Sprintf("%d", r.InstalledRank),
					version,
					r.Type,
					r.Script,
					checksum,
					r.InstalledOn.Format("2006-01-02 15:04:05 MST"),
					fmt.Sprintf("%t", r.Success),
				})
			}
			t.Render()
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&url, "url", "u", "", "PostgreSQL connection URL")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
