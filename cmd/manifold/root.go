package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "manifold",
		Short:        "Publish and fetch artifacts in a Manifold registry",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("url", "https://manifold.omni.dev", "registry base URL")
	cmd.PersistentFlags().String("token", "", "bearer token (overrides MANIFOLD_TOKEN)")
	cmd.PersistentFlags().String("namespace", "community", "registry namespace")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	viper.SetEnvPrefix("manifold")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("url", cmd.PersistentFlags().Lookup("url"))
	_ = viper.BindPFlag("token", cmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("namespace", cmd.PersistentFlags().Lookup("namespace"))
	_ = viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))

	cmd.AddCommand(newPublishCmd(), newGetCmd())
	return cmd
}

// endpoint composes the GraphQL endpoint from the configured base URL.
func endpoint() string {
	return strings.TrimRight(viper.GetString("url"), "/") + "/graphql"
}

// newLogger builds a stderr text logger; debug mode lowers the level and
// keeps publish stage progress visible.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("debug") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// defaultPersonaDir is where the local daemon keeps persona documents.
func defaultPersonaDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".omni", "personas")
	}
	return filepath.Join(home, ".omni", "personas")
}
