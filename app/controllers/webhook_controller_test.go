package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	stripewebhook "github.com/stripe/stripe-go/v79/webhook"

	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/billing"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/config"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/env"
)

type invoiceCall struct {
	recordID   string
	customerID string
}

type fakeInvoicer struct {
	calls []invoiceCall
	err   error
}

func (f *fakeInvoicer) CreateAndSendInvoice(ctx context.Context, recordID, customerID string) (*stripe.Invoice, error) {
	f.calls = append(f.calls, invoiceCall{recordID: recordID, customerID: customerID})
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.Invoice{ID: "in_1", Status: stripe.InvoiceStatusOpen}, nil
}

type fakeUpdater struct {
	calls []string
	err   error
}

func (f *fakeUpdater) MarkCompleted(ctx context.Context, recordID string) error {
	f.calls = append(f.calls, recordID)
	return f.err
}

func testSettings() *config.Settings {
	return &config.Settings{
		PriceID:            config.DefaultPriceID,
		CustomerProperty:   config.DefaultCustomerProperty,
		StatusProperty:     config.DefaultStatusProperty,
		CompletedLabel:     config.DefaultCompletedLabel,
		DocumentAPIBaseURL: config.DefaultDocumentAPIBaseURL,
	}
}

func newWebhookTestApp(settings *config.Settings, inv *fakeInvoicer, upd *fakeUpdater) *fiber.App {
	wc := NewWebhookControllerWith(settings,
		func() (Invoicer, error) { return inv, nil },
		func() (StatusUpdater, error) { return upd, nil },
	)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/webhook", wc.HandleRecordWebhook)
	app.Post("/stripe/webhook", wc.HandlePaymentWebhook)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func TestHandleRecordWebhook_EndToEnd(t *testing.T) {
	inv := &fakeInvoicer{}
	app := newWebhookTestApp(testSettings(), inv, &fakeUpdater{})

	body := `{"data":{"id":"page_1","properties":{"顧客ID":{"type":"rich_text","rich_text":[{"plain_text":"cus_"},{"plain_text":"abc"}]}}}}`
	resp, respBody := postJSON(t, app, "/webhook", body)

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Empty(t, respBody)
	assert.Equal(t, []invoiceCall{{recordID: "page_1", customerID: "cus_abc"}}, inv.calls)
}

func TestHandleRecordWebhook_EmptyCustomerPassedThrough(t *testing.T) {
	inv := &fakeInvoicer{}
	app := newWebhookTestApp(testSettings(), inv, &fakeUpdater{})

	body := `{"data":{"id":"page_1","properties":{"顧客ID":{"type":"rich_text","rich_text":[]}}}}`
	resp, _ := postJSON(t, app, "/webhook", body)

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []invoiceCall{{recordID: "page_1", customerID: ""}}, inv.calls)
}

func TestHandleRecordWebhook_ValidationRejectsWithoutBillingCalls(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing property", body: `{"data":{"id":"page_1","properties":{}}}`},
		{name: "not rich text", body: `{"data":{"id":"page_1","properties":{"顧客ID":{"type":"title","title":[{"plain_text":"cus_abc"}]}}}}`},
		{name: "missing id", body: `{"data":{"properties":{"顧客ID":{"type":"rich_text","rich_text":[]}}}}`},
		{name: "garbage", body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &fakeInvoicer{}
			app := newWebhookTestApp(testSettings(), inv, &fakeUpdater{})

			resp, respBody := postJSON(t, app, "/webhook", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Empty(t, inv.calls)

			var payload map[string]any
			require.NoError(t, json.Unmarshal([]byte(respBody), &payload))
			assert.Equal(t, "validation_failed", payload["error"])
			assert.NotEmpty(t, payload["details"])
		})
	}
}

func TestHandleRecordWebhook_BillingFailurePropagates(t *testing.T) {
	inv := &fakeInvoicer{err: &billing.RemoteCallError{Op: billing.OpCreateInvoiceItem, Err: errors.New("boom")}}
	app := newWebhookTestApp(testSettings(), inv, &fakeUpdater{})

	body := `{"data":{"id":"page_1","properties":{"顧客ID":{"type":"rich_text","rich_text":[{"plain_text":"cus_abc"}]}}}}`
	resp, respBody := postJSON(t, app, "/webhook", body)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, respBody, "billing_call_failed")
	assert.Len(t, inv.calls, 1)
}

func TestHandleRecordWebhook_MissingBillingKey(t *testing.T) {
	prev := env.Env
	env.Env = map[string]string{}
	t.Cleanup(func() { env.Env = prev })
	t.Setenv("BILLING_SECRET_KEY", "")

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/webhook", NewWebhookController(testSettings()).HandleRecordWebhook)

	body := `{"data":{"id":"page_1","properties":{"顧客ID":{"type":"rich_text","rich_text":[{"plain_text":"cus_abc"}]}}}}`
	resp, respBody := postJSON(t, app, "/webhook", body)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, respBody, "not_configured")
}

func TestHandlePaymentWebhook_MarksCompletedForBothOutcomes(t *testing.T) {
	for _, eventType := range []string{"invoice.payment_succeeded", "invoice.payment_failed"} {
		t.Run(eventType, func(t *testing.T) {
			upd := &fakeUpdater{}
			app := newWebhookTestApp(testSettings(), &fakeInvoicer{}, upd)

			body := `{"id":"evt_1","type":"` + eventType + `","data":{"object":{"id":"in_1","metadata":{"pageId":"page_123"}}}}`
			resp, respBody := postJSON(t, app, "/stripe/webhook", body)

			assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
			assert.Empty(t, respBody)
			assert.Equal(t, []string{"page_123"}, upd.calls)
		})
	}
}

func TestHandlePaymentWebhook_MissingRecordIDIsAcknowledged(t *testing.T) {
	upd := &fakeUpdater{}
	app := newWebhookTestApp(testSettings(), &fakeInvoicer{}, upd)

	body := `{"id":"evt_1","type":"invoice.payment_succeeded","data":{"object":{"id":"in_1","metadata":{}}}}`
	resp, _ := postJSON(t, app, "/stripe/webhook", body)

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Empty(t, upd.calls)
}

func TestHandlePaymentWebhook_UpdateFailurePropagates(t *testing.T) {
	upd := &fakeUpdater{err: errors.New("notion down")}
	app := newWebhookTestApp(testSettings(), &fakeInvoicer{}, upd)

	body := `{"id":"evt_1","type":"invoice.payment_succeeded","data":{"object":{"id":"in_1","metadata":{"pageId":"page_123"}}}}`
	resp, _ := postJSON(t, app, "/stripe/webhook", body)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, []string{"page_123"}, upd.calls)
}

func TestHandlePaymentWebhook_InvalidBody(t *testing.T) {
	upd := &fakeUpdater{}
	app := newWebhookTestApp(testSettings(), &fakeInvoicer{}, upd)

	resp, respBody := postJSON(t, app, "/stripe/webhook", `{nope`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, respBody, "invalid_payload")
	assert.Empty(t, upd.calls)
}

func TestHandlePaymentWebhook_SignatureRequiredWhenSecretSet(t *testing.T) {
	const secret = "whsec_test_secret"
	settings := testSettings()
	settings.BillingWebhookSecret = secret

	upd := &fakeUpdater{}
	app := newWebhookTestApp(settings, &fakeInvoicer{}, upd)

	body := `{"id":"evt_1","object":"event","type":"invoice.payment_succeeded","data":{"object":{"id":"in_1","metadata":{"pageId":"page_123"}}}}`

	resp, respBody := postJSON(t, app, "/stripe/webhook", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, respBody, "invalid_signature")
	assert.Empty(t, upd.calls)

	signed := stripewebhook.GenerateTestSignedPayload(&stripewebhook.UnsignedPayload{
		Payload:   []byte(body),
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	req := httptest.NewRequest(http.MethodPost, "/stripe/webhook", strings.NewReader(string(signed.Payload)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", signed.Header)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{"page_123"}, upd.calls)
}

func TestHandleIndexAndHealth(t *testing.T) {
	app := fiber.New()
	app.Get("/", HandleIndex)
	app.Get("/healthz", HandleHealth)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Hello World", string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
