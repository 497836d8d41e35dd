package cli

import (
	"github.com/spf13/cobra"
)

type SyncOptions struct {
	Dataset string
	DryRun  bool
	PerPage int
}

func NewSyncCmd() *cobra.Command {
	opts := &SyncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Extract MyShop data and load it into the warehouse",
		RunE: func(c *cobra.Command, args []string) error {
			return runSync(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Dataset, "dataset", "d", "", "Sync a single dataset (customers, orders, order_line_items)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Extract and transform without writing to the warehouse")
	cmd.Flags().IntVarP(&opts.PerPage, "per-page", "p", 100, "Records per API page")

	return cmd
}
