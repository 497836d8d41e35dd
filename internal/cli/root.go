// Package cli wires the cobra commands to the ETL pipeline.
package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shoploader",
		Short: "shoploader - MyShop to warehouse data loader",
		Long: `shoploader extracts customers, orders and order line items from the
paginated MyShop API and loads them into the warehouse, one table per
dataset, in dependency order.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(NewSyncCmd())

	return rootCmd
}
