package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"

	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/billing"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/config"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/notion"
)

const requestIDLocalKey = "requestid"

// ErrorHandler renders errors that handlers propagate. Remote call failures
// and missing credentials end up here as 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	evt := log.Error()
	if code < fiber.StatusInternalServerError {
		evt = log.Warn()
	}
	evt.Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", requestID(c)).
		Int("status", code).
		Msg("request failed")

	return c.Status(code).JSON(fiber.Map{
		"error":   errorCode(err, code),
		"message": utils.StatusMessage(code),
	})
}

func errorCode(err error, code int) string {
	var remoteErr *billing.RemoteCallError
	var apiErr *notion.APIError
	switch {
	case errors.Is(err, config.ErrMissingCredential):
		return "not_configured"
	case errors.As(err, &remoteErr):
		return "billing_call_failed"
	case errors.As(err, &apiErr):
		return "document_call_failed"
	case code == fiber.StatusNotFound:
		return "not_found"
	case code == fiber.StatusMethodNotAllowed:
		return "method_not_allowed"
	case code < fiber.StatusInternalServerError:
		return "bad_request"
	default:
		return "internal_server_error"
	}
}

func requestID(c *fiber.Ctx) string {
	if v, ok := c.Locals(requestIDLocalKey).(string); ok {
		return v
	}
	return ""
}
