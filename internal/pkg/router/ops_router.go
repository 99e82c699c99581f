package router

import (
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/ManuelReschke/InvoiceRelay/app/controllers"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/env"
)

// OpsRouter serves health, metrics and API docs.
type OpsRouter struct {
}

func (h OpsRouter) InstallRouter(app *fiber.App) {
	app.Get("/healthz", controllers.HandleHealth)

	metricsHandlers := []fiber.Handler{}
	user := env.GetEnv("METRICS_USER", "")
	password := env.GetEnv("METRICS_PASSWORD", "")
	if user != "" && password != "" {
		metricsHandlers = append(metricsHandlers, basicauth.New(basicauth.Config{
			Users: map[string]string{user: password},
		}))
	}
	metricsHandlers = append(metricsHandlers, adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/metrics", metricsHandlers...)

	// SWAGGER / OPENAPI
	docsFile := env.GetEnv("API_DOCS_FILE", "./public/docs/v1/openapi.yml")
	if _, err := os.Stat(docsFile); err != nil {
		log.Debug().Str("file", docsFile).Msg("openapi file not found, docs route disabled")
		return
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: docsFile,
		Path:     "v1",
		Title:    "Invoice Relay API",
	}))
}

func NewOpsRouter() *OpsRouter {
	return &OpsRouter{}
}
