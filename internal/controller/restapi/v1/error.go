package v1

import (
	"errors"
	"net/http"

	"github.com/andreyxaxa/Access-Gate/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

func errorResponse(ctx *fiber.Ctx, code int, msg string) error {
	return ctx.Status(code).JSON(response.Error{Error: msg})
}

// failure maps a use case error to a response. Backend error text is only
// logged, never returned.
func (r *V1) failure(ctx *fiber.Ctx, err error, op string) error {
	switch {
	case errors.Is(err, errs.ErrEmptyPayload):
		return errorResponse(ctx, http.StatusBadRequest, "picture body is empty")
	case errors.Is(err, errs.ErrInvalidID):
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	case errors.Is(err, errs.ErrValidation):
		return errorResponse(ctx, http.StatusBadRequest, "invalid request")
	case errors.Is(err, errs.ErrRecordNotFound):
		return errorResponse(ctx, http.StatusNotFound, "status not found")
	case errors.Is(err, errs.ErrNetwork):
		r.logger.Error(err, op)

		return errorResponse(ctx, http.StatusBadGateway, "gateway unreachable")
	default:
		r.logger.Error(err, op)

		return errorResponse(ctx, http.StatusInternalServerError, "internal error")
	}
}
