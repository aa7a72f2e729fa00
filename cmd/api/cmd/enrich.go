package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/labdan/Dashboard-sub000/internal/service/enrichment"
	"github.com/spf13/cobra"
)

var enrichMarket string

// enrichCmd resolves one ticker and prints the stored result
var enrichCmd = &cobra.Command{
	Use:   "enrich <ticker> <name>",
	Short: "Enrich one ticker and print the result",
	Long: `Runs the same cache-then-resolve flow as the API for a single ticker.

Examples:
  go run ./cmd/api enrich AAPL_US "Apple Inc." --market US
  go run ./cmd/api enrich EQNR_NO Equinor`,
	Args: cobra.ExactArgs(2),
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().StringVar(&enrichMarket, "market", "", "market hint passed to the provider (e.g. US, XNYS)")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Enrichment.RequestTimeout)
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.svc.Enrich(ctx, enrichment.Request{
		Ticker:     args[0],
		HintedName: args[1],
		Market:     enrichMarket,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
