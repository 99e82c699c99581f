package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/InvoiceRelay/app/controllers"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/middleware"
)

const (
	RouteRecordWebhook  = "/webhook"
	RoutePaymentWebhook = "/stripe/webhook"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/", controllers.HandleIndex)

	// Notion record changed -> Stripe invoice
	app.Post(RouteRecordWebhook,
		middleware.WebhookMetrics(RouteRecordWebhook),
		middleware.WebhookTokenMiddleware(h.settings.DocumentWebhookToken),
		middleware.RecordSignatureMiddleware(h.settings.DocumentWebhookSecret),
		controllers.HandleRecordWebhook,
	)

	// Stripe payment event -> Notion status (signature checked in controller when configured)
	app.Post(RoutePaymentWebhook,
		middleware.WebhookMetrics(RoutePaymentWebhook),
		controllers.HandlePaymentWebhook,
	)
}
