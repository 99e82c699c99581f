package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v79"

	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/billing"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/config"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/notion"
)

// Invoicer creates and sends one invoice for a changed record.
type Invoicer interface {
	CreateAndSendInvoice(ctx context.Context, recordID, customerID string) (*stripe.Invoice, error)
}

// StatusUpdater marks a record as completed.
type StatusUpdater interface {
	MarkCompleted(ctx context.Context, recordID string) error
}

// WebhookController serves both relay flows. Platform clients are built per
// request from the credentials present at that moment.
type WebhookController struct {
	settings         *config.Settings
	newInvoicer      func() (Invoicer, error)
	newStatusUpdater func() (StatusUpdater, error)
}

// NewWebhookController wires the Stripe and Notion adapters.
func NewWebhookController(settings *config.Settings) *WebhookController {
	return NewWebhookControllerWith(settings,
		func() (Invoicer, error) {
			key, err := config.CredentialsFromEnv().RequireBillingKey()
			if err != nil {
				return nil, err
			}
			return billing.NewService(billing.NewStripeClient(key, settings.BillingAPIBaseURL), settings.PriceID), nil
		},
		func() (StatusUpdater, error) {
			key, err := config.CredentialsFromEnv().RequireDocumentKey()
			if err != nil {
				return nil, err
			}
			client := notion.NewClient(key, settings.DocumentAPIBaseURL)
			return notion.NewService(client, settings.StatusProperty, settings.CompletedLabel), nil
		},
	)
}

// NewWebhookControllerWith lets callers supply their own adapter factories.
func NewWebhookControllerWith(settings *config.Settings, newInvoicer func() (Invoicer, error), newStatusUpdater func() (StatusUpdater, error)) *WebhookController {
	return &WebhookController{
		settings:         settings,
		newInvoicer:      newInvoicer,
		newStatusUpdater: newStatusUpdater,
	}
}

// HandleRecordWebhook turns a changed record into a sent invoice. The event is
// not de-duplicated, a redelivered event produces a second invoice.
func (wc *WebhookController) HandleRecordWebhook(c *fiber.Ctx) error {
	event, err := notion.ParseChangedRecordEvent(c.Body(), wc.settings.CustomerProperty)
	if err != nil {
		var verr *notion.ValidationError
		if errors.As(err, &verr) {
			log.Warn().Strs("fields", verr.Fields).Str("request_id", requestID(c)).Msg("record webhook rejected")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "details": verr.Fields})
		}
		return err
	}

	invoicer, err := wc.newInvoicer()
	if err != nil {
		return fmt.Errorf("billing client: %w", err)
	}

	invoice, err := invoicer.CreateAndSendInvoice(c.UserContext(), event.RecordID, event.CustomerID)
	if err != nil {
		return err
	}

	log.Info().
		Str("record_id", event.RecordID).
		Str("customer_id", event.CustomerID).
		Str("invoice_id", invoice.ID).
		Str("invoice_status", string(invoice.Status)).
		Msg("invoice sent")

	return c.SendStatus(fiber.StatusNoContent)
}

// HandlePaymentWebhook marks the originating record completed. Succeeded and
// failed payments are handled the same way.
func (wc *WebhookController) HandlePaymentWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.Body()...)

	event, err := billing.ParsePaymentEvent(rawBody, c.Get("Stripe-Signature"), wc.settings.BillingWebhookSecret)
	if err != nil {
		log.Warn().Err(err).Str("request_id", requestID(c)).Msg("payment webhook rejected")
		if errors.Is(err, billing.ErrInvalidSignature) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_signature"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	logger := log.With().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Str("invoice_id", event.InvoiceID).
		Logger()
	logger.Debug().RawJSON("payload", rawBody).Msg("payment webhook received")

	recordID := event.RecordID()
	if recordID == "" {
		counter.AddMissingCorrelation()
		logger.Warn().Str("metadata_key", billing.MetadataRecordKey).Msg("payment event carries no record id")
		return c.SendStatus(fiber.StatusNoContent)
	}

	updater, err := wc.newStatusUpdater()
	if err != nil {
		return fmt.Errorf("document client: %w", err)
	}
	if err := updater.MarkCompleted(c.UserContext(), recordID); err != nil {
		return fmt.Errorf("mark record %s completed: %w", recordID, err)
	}

	logger.Info().Str("record_id", recordID).Msg("record marked completed")
	return c.SendStatus(fiber.StatusNoContent)
}
