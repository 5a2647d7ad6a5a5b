package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recurring-payments",
	Short: "Recurring payments service",
	Long:  "HTTP service and background workers for wallet-to-wallet recurring payments and on-chain plan entitlements.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
