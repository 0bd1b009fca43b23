package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultMigrationsDir = "migrations"

func init() {
	viper.SetConfigName("pgmt")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("PGMT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("migrations-dir", defaultMigrationsDir)
	viper.SetDefault("verbosity", 1)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() {
		<-ctx.Done()
		stop()
		log.Print("Interrupt received, cleaning up before quitting. Interrupt again to force-quit.")
	}()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cli := &CLI{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		verbosity: InfoLevel,
	}

	cmd := &cobra.Command{
		Use:     "pgmt",
		Short:   "PostgreSQL Migration Tool",
		Version: "0.1.0",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			err := viper.ReadInConfig()
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				// Config file is optional; defaults apply.
			} else if err != nil {
				return err
			}

			cli.SetVerbosity(Verbosity(viper.GetInt("verbosity")))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("migrations-dir", defaultMigrationsDir, "Default directory for new/setup")
	flags.CountP("verbosity", "v", "Log verbosity")
	_ = viper.BindPFlags(flags)

	cmd.AddCommand(
		migrateCmd(cli),
		newCmd(cli),
		setupCmd(cli),
		statusCmd(cli),
		templateCmd(cli),
	)
	return cmd
}
