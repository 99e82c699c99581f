package billing

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v79"

	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/metrics/counter"
)

// Service creates and sends invoices for changed records.
type Service struct {
	api     InvoiceAPI
	priceID string
}

// NewService creates a billing service from an injected invoice API.
func NewService(api InvoiceAPI, priceID string) *Service {
	return &Service{api: api, priceID: strings.TrimSpace(priceID)}
}

// CreateAndSendInvoice runs create invoice, attach line item and send in
// order. Each step needs the invoice id from the first one, so the calls are
// strictly sequential. A failure stops the sequence; nothing already created
// on Stripe is voided, so a failed item or send step leaves a draft invoice
// behind.
func (s *Service) CreateAndSendInvoice(ctx context.Context, recordID, customerID string) (*stripe.Invoice, error) {
	if strings.TrimSpace(recordID) == "" {
		return nil, errors.New("record id is required")
	}
	logger := log.With().Str("record_id", recordID).Str("customer_id", customerID).Logger()

	params := &stripe.InvoiceParams{
		Customer:         stripe.String(customerID),
		CollectionMethod: stripe.String(string(stripe.InvoiceCollectionMethodSendInvoice)),
		DaysUntilDue:     stripe.Int64(DaysUntilDue),
	}
	params.AddMetadata(MetadataRecordKey, recordID)

	invoice, err := s.api.CreateInvoice(ctx, params)
	counter.AddRemoteCall(counter.PlatformBilling, OpCreateInvoice, err)
	if err != nil {
		logger.Error().Err(err).Str("op", OpCreateInvoice).Msg("failed to create and send invoice")
		return nil, newRemoteCallError(OpCreateInvoice, err)
	}
	logger = logger.With().Str("invoice_id", invoice.ID).Logger()

	_, err = s.api.CreateInvoiceItem(ctx, &stripe.InvoiceItemParams{
		Customer: stripe.String(customerID),
		Price:    stripe.String(s.priceID),
		Invoice:  stripe.String(invoice.ID),
	})
	counter.AddRemoteCall(counter.PlatformBilling, OpCreateInvoiceItem, err)
	if err != nil {
		logger.Error().Err(err).Str("op", OpCreateInvoiceItem).Msg("failed to create and send invoice")
		return nil, newRemoteCallError(OpCreateInvoiceItem, err)
	}

	sent, err := s.api.SendInvoice(ctx, invoice.ID, &stripe.InvoiceSendInvoiceParams{})
	counter.AddRemoteCall(counter.PlatformBilling, OpSendInvoice, err)
	if err != nil {
		logger.Error().Err(err).Str("op", OpSendInvoice).Msg("failed to create and send invoice")
		return nil, newRemoteCallError(OpSendInvoice, err)
	}

	logger.Debug().Str("status", string(sent.Status)).Msg("invoice sent")
	return sent, nil
}
