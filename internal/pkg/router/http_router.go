package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/InvoiceRelay/app/controllers"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/config"
)

type HttpRouter struct {
	settings *config.Settings
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Tests may have installed their own controller already.
	if controllers.GetWebhookControllerIfSet() == nil {
		controllers.InitializeWebhookController(h.settings)
	}

	h.registerPublicRoutes(app)
}

func NewHttpRouter(settings *config.Settings) *HttpRouter {
	return &HttpRouter{settings: settings}
}
