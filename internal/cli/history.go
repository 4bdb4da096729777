package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pagelens/internal/app"
)

var (
	flagLimit  int
	flagOffset int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent analyses, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		application, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		analyses, err := application.Store().List(ctx, flagLimit, flagOffset)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tSENTIMENT\tWORDS\tURL")
		for _, a := range analyses {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
				a.ID,
				a.CreatedAt.Format("2006-01-02 15:04"),
				a.Sentiment.Label,
				a.Lexical.WordCount,
				a.URL,
			)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "maximum number of records")
	historyCmd.Flags().IntVar(&flagOffset, "offset", 0, "number of records to skip")
	rootCmd.AddCommand(historyCmd)
}
