package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/env"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/logging"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "invoicerelay",
		Short:         "Relay Notion record changes to Stripe invoices and payments back to Notion",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env.SetupEnvFile()
			logging.Setup(env.GetEnv("LOG_LEVEL", "info"), env.IsDev())
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(sendInvoiceCmd())
	rootCmd.AddCommand(markCompletedCmd())

	return rootCmd
}
