package httpserver

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"estatehub/internal/apperr"
	"estatehub/internal/config"
	"estatehub/internal/filestore"
	"estatehub/internal/http/handlers"
	applog "estatehub/internal/log"
)

const serviceName = "estatehub"

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// New builds the fiber app with its middleware stack and routes.
func New(cfg *config.Config, deps *handlers.Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      serviceName,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: ErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	app.Use(requestid.New())
	app.Use(applog.Middleware())
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	app.Use(cors.New())
	app.Use(helmet.New(helmet.Config{
		// images are embedded by frontends on other origins
		CrossOriginResourcePolicy: "cross-origin",
	}))

	if cfg.MetricsEnabled {
		// the default prometheus registry only takes one set of collectors
		promOnce.Do(func() {
			prom = fiberprometheus.New(serviceName)
		})
		prom.RegisterAt(app, "/metrics")
		app.Use(prom.Middleware)
	}

	app.Get(filestore.PublicPrefix+"/*", deps.UploadHandler.Serve)

	api := app.Group("/api")
	api.Get("/properties", deps.PropertyHandler.List)
	api.Post("/properties", deps.PropertyHandler.Create)
	api.Put("/properties/:id", deps.PropertyHandler.Update)
	api.Delete("/properties/:id", deps.PropertyHandler.Delete)

	app.Get("/healthz", deps.HealthHandler.Check)
	app.Use(func(c *fiber.Ctx) error {
		return apperr.ErrNotFound.Msg("route not found")
	})

	return app
}
