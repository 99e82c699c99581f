package billing

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeClient implements InvoiceAPI on top of a per-key stripe-go client.
// It never touches stripe-go's package level key or backends.
type StripeClient struct {
	api *client.API
}

// NewStripeClient builds a client for one secret key. An empty baseURL uses
// the public Stripe API. Network retries are disabled, a failed call fails
// the request.
func NewStripeClient(secretKey, baseURL string) *StripeClient {
	cfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     zerologLeveledLogger{},
	}
	if u := strings.TrimSpace(baseURL); u != "" {
		cfg.URL = stripe.String(u)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)

	sc := &client.API{}
	sc.Init(secretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})
	return &StripeClient{api: sc}
}

func (c *StripeClient) CreateInvoice(ctx context.Context, params *stripe.InvoiceParams) (*stripe.Invoice, error) {
	params.Context = ctx
	return c.api.Invoices.New(params)
}

func (c *StripeClient) CreateInvoiceItem(ctx context.Context, params *stripe.InvoiceItemParams) (*stripe.InvoiceItem, error) {
	params.Context = ctx
	return c.api.InvoiceItems.New(params)
}

func (c *StripeClient) SendInvoice(ctx context.Context, invoiceID string, params *stripe.InvoiceSendInvoiceParams) (*stripe.Invoice, error) {
	if params == nil {
		params = &stripe.InvoiceSendInvoiceParams{}
	}
	params.Context = ctx
	return c.api.Invoices.SendInvoice(invoiceID, params)
}

// zerologLeveledLogger routes stripe-go's internal logging into zerolog.
type zerologLeveledLogger struct{}

func (zerologLeveledLogger) Debugf(format string, v ...interface{}) {
	log.Debug().Str("component", "stripe").Msgf(format, v...)
}

func (zerologLeveledLogger) Infof(format string, v ...interface{}) {
	log.Debug().Str("component", "stripe").Msgf(format, v...)
}

func (zerologLeveledLogger) Warnf(format string, v ...interface{}) {
	log.Warn().Str("component", "stripe").Msgf(format, v...)
}

func (zerologLeveledLogger) Errorf(format string, v ...interface{}) {
	log.Error().Str("component", "stripe").Msgf(format, v...)
}
