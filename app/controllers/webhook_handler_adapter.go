package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/config"
)

// Global webhook controller instance
var webhookController *WebhookController

// InitializeWebhookController initializes the global webhook controller
func InitializeWebhookController(settings *config.Settings) {
	webhookController = NewWebhookController(settings)
}

// SetWebhookController replaces the global controller, used by tests and the CLI.
func SetWebhookController(wc *WebhookController) {
	webhookController = wc
}

// GetWebhookController returns the global webhook controller instance
func GetWebhookController() *WebhookController {
	if webhookController == nil {
		settings, err := config.LoadSettings()
		if err != nil {
			panic(err)
		}
		InitializeWebhookController(settings)
	}
	return webhookController
}

// HandleRecordWebhook - Adapter for the record changed webhook
func HandleRecordWebhook(c *fiber.Ctx) error {
	return GetWebhookController().HandleRecordWebhook(c)
}

// HandlePaymentWebhook - Adapter for the payment webhook
func HandlePaymentWebhook(c *fiber.Ctx) error {
	return GetWebhookController().HandlePaymentWebhook(c)
}

// GetWebhookControllerIfSet returns the global controller without creating one.
func GetWebhookControllerIfSet() *WebhookController {
	return webhookController
}
