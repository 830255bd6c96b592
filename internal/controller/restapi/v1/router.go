package v1

import (
	"github.com/andreyxaxa/Access-Gate/internal/usecase"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

// NewStatusRoutes mounts at the root. The camera and the review tooling use
// these paths as they are.
func NewStatusRoutes(router fiber.Router, st usecase.StatusUseCase, l logger.Interface) {
	r := &V1{status: st, logger: l}

	{
		router.Post("/picture", r.uploadPicture)
		router.Get("/status/:id", r.getStatus)
		router.Patch("/status/:id", r.setAuthorisation)
		router.Post("/status/:id/push", r.pushDecision)
	}
}
