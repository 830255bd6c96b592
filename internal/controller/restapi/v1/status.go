package v1

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"github.com/andreyxaxa/Access-Gate/internal/controller/restapi/v1/request"
	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var allowedContentTypes = map[string]bool{
	"":                         true,
	"image/jpeg":               true,
	"image/jpg":                true,
	"application/octet-stream": true,
}

// @Summary 	Upload a captured picture
// @Description Stores the raw JPEG, creates the Picture and its unauthorised Status
// @Tags 		pictures
// @Accept 		image/jpeg
// @Produce 	json
// @Param 		body body string true "raw JPEG bytes"
// @Success 	200 {object} entity.StatusProjection
// @Failure 	400 {object} response.Error "Empty body"
// @Failure 	413 {object} response.Error "Body too large"
// @Failure 	415 {object} response.Error "Not a JPEG"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/picture [post]
func (r *V1) uploadPicture(ctx *fiber.Ctx) error {
	contentType, _, err := mime.ParseMediaType(string(ctx.Request().Header.ContentType()))
	if err != nil {
		contentType = ""
	}
	if !allowedContentTypes[contentType] {
		return errorResponse(ctx, http.StatusUnsupportedMediaType, "body must be image/jpeg")
	}

	// fiber reuses the request buffer after the handler returns
	body := append([]byte(nil), ctx.Body()...)

	projection, err := r.status.CreateFromUpload(ctx.UserContext(), body)
	if err != nil {
		return r.failure(ctx, err, "restapi - v1 - uploadPicture")
	}

	return ctx.Status(http.StatusOK).JSON(projection)
}

// @Summary 	Get status
// @Description Returns the Status joined with its Picture
// @Tags 		statuses
// @Produce 	json
// @Param 		id path string true "Status ID(uuid)"
// @Success 	200 {object} entity.StatusProjection
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Status not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/status/{id} [get]
func (r *V1) getStatus(ctx *fiber.Ctx) error {
	id, err := parseID(ctx.Params("id"))
	if err != nil {
		return r.failure(ctx, err, "restapi - v1 - getStatus")
	}

	projection, err := r.status.Get(ctx.UserContext(), id)
	if err != nil {
		return r.failure(ctx, err, "restapi - v1 - getStatus")
	}

	return ctx.Status(http.StatusOK).JSON(projection)
}

// @Summary 	Authorise or reject
// @Description Stores the decision, then pushes it to the gateway. A failed push is logged only.
// @Tags 		statuses
// @Accept 		json
// @Produce 	json
// @Param 		id   path string                   true "Status ID(uuid)"
// @Param 		body body request.SetAuthorisation true "decision"
// @Success 	200 {object} entity.StatusProjection
// @Failure 	400 {object} response.Error "Invalid ID or body"
// @Failure 	404 {object} response.Error "Status not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/status/{id} [patch]
func (r *V1) setAuthorisation(ctx *fiber.Ctx) error {
	id, err := parseID(ctx.Params("id"))
	if err != nil {
		return r.failure(ctx, err, "restapi - v1 - setAuthorisation")
	}

	var req request.SetAuthorisation
	if err := json.Unmarshal(ctx.Body(), &req); err != nil || req.Authorised == nil {
		return errorResponse(ctx, http.StatusBadRequest, "body must be {\"authorised\": bool}")
	}

	projection, err := r.status.SetAuthorisation(ctx.UserContext(), id, *req.Authorised)
	if err != nil {
		return r.failure(ctx, err, "restapi - v1 - setAuthorisation")
	}

	if pushed, err := r.status.PushDecision(ctx.UserContext(), id); err != nil {
		r.logger.Warn("restapi - v1 - setAuthorisation - push for %s failed: %v", id, err)
	} else {
		projection = pushed
	}

	return ctx.Status(http.StatusOK).JSON(projection)
}

// @Summary 	Push decision again
// @Description Re-sends the current decision to the gateway
// @Tags 		statuses
// @Produce 	json
// @Param 		id path string true "Status ID(uuid)"
// @Success 	200 {object} entity.StatusProjection
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Status not found"
// @Failure 	502 {object} response.Error "Gateway unreachable"
// @Router 		/status/{id}/push [post]
func (r *V1) pushDecision(ctx *fiber.Ctx) error {
	id, err := parseID(ctx.Params("id"))
	if err != nil {
		return r.failure(ctx, err, "restapi - v1 - pushDecision")
	}

	projection, err := r.status.PushDecision(ctx.UserContext(), id)
	if err != nil {
		return r.failure(ctx, err, "restapi - v1 - pushDecision")
	}

	return ctx.Status(http.StatusOK).JSON(projection)
}

// parseID accepts the canonical 8-4-4-4-12 form only.
func parseID(raw string) (uuid.UUID, error) {
	if len(raw) != 36 {
		return uuid.Nil, fmt.Errorf("parseID %q: %w", raw, errs.ErrInvalidID)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parseID %q: %w: %w", raw, errs.ErrInvalidID, err)
	}

	return id, nil
}
