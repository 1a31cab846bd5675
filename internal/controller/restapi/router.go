package restapi

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andreyxaxa/photo-thumbnailer/config"
	// swagger spec
	_ "github.com/andreyxaxa/photo-thumbnailer/docs"
	"github.com/andreyxaxa/photo-thumbnailer/internal/controller/restapi/middleware"
	v1 "github.com/andreyxaxa/photo-thumbnailer/internal/controller/restapi/v1"
	"github.com/andreyxaxa/photo-thumbnailer/internal/usecase"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/logger"
)

// @title Photo thumbnailer
// @version 1.0.0
// @host localhost:8080
// @BasePath /
func NewRouter(
	app *fiber.App,
	cfg *config.Config,
	photo usecase.PhotoUseCase,
	gatherer prometheus.Gatherer,
	l logger.Interface,
) {
	// Options
	app.Use(middleware.Logger(l))
	app.Use(middleware.Recovery(l))
	// browser clients upload from another origin
	app.Use(cors.New())

	// Metrics
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// K8s probe
	app.Get("/healthz", func(ctx *fiber.Ctx) error { return ctx.SendStatus(http.StatusOK) })

	// Routers
	v1.NewPhotoRoutes(app, photo, l)
}
