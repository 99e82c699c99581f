package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/billing"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/config"
)

func sendInvoiceCmd() *cobra.Command {
	var recordID, customerID string

	cmd := &cobra.Command{
		Use:   "send-invoice",
		Short: "Create and send one invoice without a webhook",
		Long: `Create a draft invoice for the customer, add the configured price and send it.

Example:
  invoicerelay send-invoice --record 1a2b3c --customer cus_123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}
			key, err := config.CredentialsFromEnv().RequireBillingKey()
			if err != nil {
				return err
			}

			svc := billing.NewService(billing.NewStripeClient(key, settings.BillingAPIBaseURL), settings.PriceID)
			invoice, err := svc.CreateAndSendInvoice(cmd.Context(), recordID, customerID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", invoice.ID, invoice.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&recordID, "record", "", "record id stored in the invoice metadata")
	cmd.Flags().StringVar(&customerID, "customer", "", "billing customer id")
	_ = cmd.MarkFlagRequired("record")
	_ = cmd.MarkFlagRequired("customer")

	return cmd
}
