package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/config"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

func InstallRouter(app *fiber.App, settings *config.Settings) {
	// Ops routes first so /metrics and /healthz are not shadowed.
	setup(app, NewOpsRouter(), NewHttpRouter(settings))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
