package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	serverWS   string
	serverAPI  string
	verbose    bool
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("QUIZ_CLIENT_CONFIG")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "quiz-client",
		Short: "Headless client for the realtime multiplayer quiz server",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&serverWS, "server", "", "websocket endpoint (overrides config)")
	cmd.PersistentFlags().StringVar(&serverAPI, "api", "", "HTTP API endpoint (overrides config)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newPlayCmd())
	return cmd
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
