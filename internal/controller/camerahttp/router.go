// Package camerahttp is the camera node's local HTTP surface.
package camerahttp

import (
	"errors"
	"net/http"

	"github.com/andreyxaxa/Access-Gate/internal/usecase"
	"github.com/andreyxaxa/Access-Gate/internal/usecase/capture"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

type controller struct {
	capture usecase.CaptureUseCase
	logger  logger.Interface
}

func NewRouter(app *fiber.App, uc usecase.CaptureUseCase, l logger.Interface) {
	c := &controller{capture: uc, logger: l}

	// K8s probe
	app.Get("/healthz", func(ctx *fiber.Ctx) error { return ctx.SendStatus(fiber.StatusOK) })

	app.Get("/capture", c.captureAndUpload)
}

// captureAndUpload answers with the status projection created by the
// service. Failures are plain text.
func (c *controller) captureAndUpload(ctx *fiber.Ctx) error {
	projection, err := c.capture.Capture(ctx.UserContext())
	if err != nil {
		c.logger.Error(err, "camerahttp - captureAndUpload")

		switch {
		case errors.Is(err, capture.ErrCaptureFailed):
			return ctx.Status(http.StatusInternalServerError).SendString("Failed to capture image")
		case errors.Is(err, capture.ErrUploadFailed):
			return ctx.Status(http.StatusBadGateway).SendString("Failed to upload image")
		default:
			return ctx.Status(http.StatusInternalServerError).SendString("Internal error")
		}
	}

	return ctx.Status(http.StatusOK).JSON(projection)
}
