package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"pagelens/internal/app"
)

var flagCharts bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze a single URL and print the record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		application, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		result, err := application.Pipeline().Analyze(ctx, args[0])
		if err != nil {
			return err
		}

		payload := map[string]any{"analysis": result.Analysis}
		if flagCharts {
			payload["charts"] = result.Charts
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&flagCharts, "charts", false, "include base64 chart payloads in the output")
	rootCmd.AddCommand(analyzeCmd)
}
