package restapi

import (
	"github.com/andreyxaxa/Access-Gate/config"
	_ "github.com/andreyxaxa/Access-Gate/docs" // swagger spec
	v1 "github.com/andreyxaxa/Access-Gate/internal/controller/restapi/v1"
	"github.com/andreyxaxa/Access-Gate/internal/usecase"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// @title Access Gate status service
// @version 1.0.0
// @host localhost:8080
// @BasePath /
func NewRouter(app *fiber.App, cfg *config.API, st usecase.StatusUseCase, l logger.Interface) {
	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// K8s probe
	app.Get("/healthz", func(ctx *fiber.Ctx) error { return ctx.SendStatus(fiber.StatusOK) })

	// Routers
	v1.NewStatusRoutes(app, st, l)
}
