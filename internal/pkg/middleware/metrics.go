package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/metrics/counter"
)

// WebhookMetrics counts requests per route. Errors returned by later handlers
// are not yet rendered when control comes back here, so their status is
// derived from the error the same way the app's error handler does it.
func WebhookMetrics(route string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		counter.AddWebhookRequest(route, status, time.Since(start))
		return err
	}
}
