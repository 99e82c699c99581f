package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/config"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/notion"
)

func markCompletedCmd() *cobra.Command {
	var recordID string

	cmd := &cobra.Command{
		Use:   "mark-completed",
		Short: "Set a record's status property to the completed label",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}
			key, err := config.CredentialsFromEnv().RequireDocumentKey()
			if err != nil {
				return err
			}

			svc := notion.NewService(notion.NewClient(key, settings.DocumentAPIBaseURL), settings.StatusProperty, settings.CompletedLabel)
			if err := svc.MarkCompleted(cmd.Context(), recordID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", recordID, settings.CompletedLabel)
			return nil
		},
	}

	cmd.Flags().StringVar(&recordID, "record", "", "record id to update")
	_ = cmd.MarkFlagRequired("record")

	return cmd
}
