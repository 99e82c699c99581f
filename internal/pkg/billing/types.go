package billing

import (
	"context"

	"github.com/stripe/stripe-go/v79"
)

const (
	// MetadataRecordKey is the invoice metadata key carrying the originating
	// record id. Payment events read it back to find the record to update.
	MetadataRecordKey = "pageId"

	DaysUntilDue = 30

	OpCreateInvoice     = "create_invoice"
	OpCreateInvoiceItem = "create_invoice_item"
	OpSendInvoice       = "send_invoice"
)

// InvoiceAPI is the subset of the Stripe API needed to produce a sent invoice.
type InvoiceAPI interface {
	CreateInvoice(ctx context.Context, params *stripe.InvoiceParams) (*stripe.Invoice, error)
	CreateInvoiceItem(ctx context.Context, params *stripe.InvoiceItemParams) (*stripe.InvoiceItem, error)
	SendInvoice(ctx context.Context, invoiceID string, params *stripe.InvoiceSendInvoiceParams) (*stripe.Invoice, error)
}
