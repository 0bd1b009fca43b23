package main

import (
	"os"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/metagram-net/pgmt"
)

func newCmd(cli *CLI) *cobra.Command {
	var (
		version      string
		slug         string
		templateFile string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new migration file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			dir := viper.GetString("migrations-dir")

			tmpl, err := loadTemplate(templateFile)
			if err != nil {
				cli.Exitf(1, "load migration template: %s", err)
			}

			path, err := pgmt.NewFile(dir, version, slug, tmpl)
			if err != nil {
				cli.Exitf(1, "write migration file: %s", err)
			}

			cli.Infof("Created new migration file: %s", path)
			cli.Printf(path)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&version, "version", "", "Migration version override (default: next patch after the highest V version present)")
	flags.StringVar(&slug, "slug", "", "Short text used to name the migration")
	_ = cmd.MarkFlagRequired("slug")
	flags.StringVar(&templateFile, "template", "", "Template file for the migration")
	return cmd
}

func loadTemplate(path string) (*template.Template, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return template.New("migration").Parse(string(b))
}
