package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

var (
	version = "dev"

	flagConfigPath string
	flagServer     string
	flagToken      string
	flagHistory    string
	flagVerbose    bool

	cfg *Config
)

var rootCmd = &cobra.Command{
	Use:          "decido",
	Short:        "Stress-test a decision from several perspectives",
	Long:         `decido sends a decision to the DECIDO engine and prints a structured verdict.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := LoadConfig(flagConfigPath)
		if err != nil {
			return err
		}
		if flagServer != "" {
			loaded.ServerURL = flagServer
		}
		if flagToken != "" {
			loaded.Token = flagToken
		}
		if flagHistory != "" {
			loaded.HistoryPath = flagHistory
		}
		cfg = loaded

		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		log := slog.New(logger.NewConsoleHandler(level))
		cmd.SetContext(logger.ToContext(cmd.Context(), log))
		return nil
	},
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&flagConfigPath, "config", "c", DefaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "server URL (overrides server_url)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Firebase ID token (overrides token)")
	rootCmd.PersistentFlags().StringVar(&flagHistory, "history-path", "", "local history directory (overrides history_path)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

func newClient() *Client {
	return NewClient(cfg.ServerURL, cfg.Token)
}

func withHistory(fn func(h *localHistory) error) error {
	h, err := openLocalHistory(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer h.Close()
	return fn(h)
}
