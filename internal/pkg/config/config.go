package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/env"
)

const (
	DefaultPriceID            = "price_1QWpYBD37ZFLFPSrxmlhTHZT"
	DefaultDocumentAPIBaseURL = "https://api.notion.com"
	DefaultCustomerProperty   = "顧客ID"
	DefaultStatusProperty     = "ステータス"
	DefaultCompletedLabel     = "完了"
)

// ErrMissingCredential is returned when a platform secret is not configured.
var ErrMissingCredential = errors.New("missing credential")

// Settings holds the non-secret configuration shared by all requests.
type Settings struct {
	PriceID               string `validate:"required"`
	CustomerProperty      string `validate:"required"`
	StatusProperty        string `validate:"required"`
	CompletedLabel        string `validate:"required"`
	BillingAPIBaseURL     string `validate:"omitempty,url"`
	DocumentAPIBaseURL    string `validate:"required,url"`
	BillingWebhookSecret  string
	DocumentWebhookToken  string
	DocumentWebhookSecret string
}

// LoadSettings reads settings from the environment and validates them.
func LoadSettings() (*Settings, error) {
	s := &Settings{
		PriceID:               strings.TrimSpace(env.GetEnv("BILLING_PRICE_ID", DefaultPriceID)),
		CustomerProperty:      strings.TrimSpace(env.GetEnv("DOCUMENT_CUSTOMER_PROPERTY", DefaultCustomerProperty)),
		StatusProperty:        strings.TrimSpace(env.GetEnv("DOCUMENT_STATUS_PROPERTY", DefaultStatusProperty)),
		CompletedLabel:        strings.TrimSpace(env.GetEnv("DOCUMENT_STATUS_COMPLETED", DefaultCompletedLabel)),
		BillingAPIBaseURL:     strings.TrimRight(strings.TrimSpace(env.GetEnv("BILLING_API_BASE_URL", "")), "/"),
		DocumentAPIBaseURL:    strings.TrimRight(strings.TrimSpace(env.GetEnv("DOCUMENT_API_BASE_URL", DefaultDocumentAPIBaseURL)), "/"),
		BillingWebhookSecret:  strings.TrimSpace(env.GetEnv("BILLING_WEBHOOK_SECRET", "")),
		DocumentWebhookToken:  strings.TrimSpace(env.GetEnv("DOCUMENT_WEBHOOK_TOKEN", "")),
		DocumentWebhookSecret: strings.TrimSpace(env.GetEnv("DOCUMENT_WEBHOOK_SECRET", "")),
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

func (s *Settings) Validate() error {
	v := validator.New()

	return v.Struct(s)
}

// Credentials are read per request so rotated secrets apply without a restart.
type Credentials struct {
	BillingSecretKey string
	DocumentAPIKey   string
}

func CredentialsFromEnv() Credentials {
	return Credentials{
		BillingSecretKey: strings.TrimSpace(env.GetEnv("BILLING_SECRET_KEY", "")),
		DocumentAPIKey:   strings.TrimSpace(env.GetEnv("DOCUMENT_API_KEY", "")),
	}
}

func (c Credentials) RequireBillingKey() (string, error) {
	if c.BillingSecretKey == "" {
		return "", fmt.Errorf("%w: BILLING_SECRET_KEY is not configured", ErrMissingCredential)
	}
	return c.BillingSecretKey, nil
}

func (c Credentials) RequireDocumentKey() (string, error) {
	if c.DocumentAPIKey == "" {
		return "", fmt.Errorf("%w: DOCUMENT_API_KEY is not configured", ErrMissingCredential)
	}
	return c.DocumentAPIKey, nil
}
