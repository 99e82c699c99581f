package billing

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v79"
)

var (
	ErrInvalidCustomer = errors.New("invalid customer")
	ErrInvalidPrice    = errors.New("invalid price reference")
	ErrProviderDown    = errors.New("billing provider unavailable")
	ErrAuthentication  = errors.New("billing provider rejected credentials")
)

// RemoteCallError reports which step of the invoice sequence failed.
// Unwrap exposes both the classified sentinel (if any) and the original error,
// so callers can use errors.Is for the sentinel and errors.As for *stripe.Error.
type RemoteCallError struct {
	Op  string
	Err error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("billing %s failed: %v", e.Op, e.Err)
}

func (e *RemoteCallError) Unwrap() []error {
	if kind := classifyStripeError(e.Err); kind != nil {
		return []error{kind, e.Err}
	}
	return []error{e.Err}
}

func newRemoteCallError(op string, err error) error {
	return &RemoteCallError{Op: op, Err: err}
}

// classifyStripeError maps provider errors onto package sentinels.
func classifyStripeError(err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return nil
	}

	switch {
	case stripeErr.HTTPStatusCode == http.StatusUnauthorized:
		return ErrAuthentication
	case stripeErr.HTTPStatusCode >= http.StatusInternalServerError:
		return ErrProviderDown
	case stripeErr.Code == stripe.ErrorCodeResourceMissing && stripeErr.Param == "customer":
		return ErrInvalidCustomer
	case stripeErr.Code == stripe.ErrorCodeResourceMissing && stripeErr.Param == "price":
		return ErrInvalidPrice
	}
	return nil
}
