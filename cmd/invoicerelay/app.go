package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/ManuelReschke/InvoiceRelay/app/controllers"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/config"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/router"
)

// NewApplication builds the fiber app with all relay routes installed.
func NewApplication(settings *config.Settings) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "invoicerelay",
		ErrorHandler:          controllers.ErrorHandler,
		BodyLimit:             1 << 20, // webhook payloads are small
		DisableStartupMessage: true,
	})

	// recovery, request ids and access log
	app.Use(
		recover.New(),
		requestid.New(requestid.Config{Generator: uuid.NewString}),
		logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}),
	)

	// ROUTER
	router.InstallRouter(app, settings)

	return app
}
