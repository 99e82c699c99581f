package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
)

// PaymentEvent is the part of an invoice payment event the relay consumes.
// Succeeded and failed events decode to the same shape.
type PaymentEvent struct {
	ID        string
	Type      string
	InvoiceID string
	Metadata  map[string]string
}

// RecordID returns the correlated record id, or "" when the tag is absent.
func (e *PaymentEvent) RecordID() string {
	if e == nil {
		return ""
	}
	return strings.TrimSpace(e.Metadata[MetadataRecordKey])
}

type paymentObject struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

// ParsePaymentEvent decodes a Stripe webhook body. With a non-empty secret
// the Stripe-Signature header must verify; with an empty secret the body is
// decoded as is.
func ParsePaymentEvent(payload []byte, signatureHeader, secret string) (*PaymentEvent, error) {
	var event stripe.Event
	if s := strings.TrimSpace(secret); s != "" {
		if strings.TrimSpace(signatureHeader) == "" {
			return nil, fmt.Errorf("%w: missing Stripe-Signature header", ErrInvalidSignature)
		}
		verified, err := webhook.ConstructEventWithOptions(payload, signatureHeader, s, webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		event = verified
	} else if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	out := &PaymentEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return out, nil
	}

	var obj paymentObject
	if err := json.Unmarshal(event.Data.Raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: decode data.object: %v", ErrInvalidPayload, err)
	}
	out.InvoiceID = obj.ID
	out.Metadata = obj.Metadata
	return out, nil
}
