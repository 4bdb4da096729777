package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"pagelens/internal/config"
	"pagelens/internal/logging"
)

var (
	flagConfig string

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pagelens",
	Short: "Fetch a web page and analyze its content",
	Long: `PageLens fetches a URL, extracts the main article text, computes
sentiment, readability, and lexical statistics, renders charts, and keeps
an append-only history of every analysis.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config file (optional)")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
