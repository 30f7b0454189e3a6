package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/loadlink/intake-backend/models"
	"github.com/loadlink/intake-backend/services"
	"github.com/loadlink/intake-backend/shared"
)

// IntakeHandler exposes the intake pipeline over HTTP. It is thin glue: it
// dispatches on request shape and renders pipeline results, nothing more.
type IntakeHandler struct {
	Service *services.IntakeService
}

func NewIntakeHandler(service *services.IntakeService) *IntakeHandler {
	return &IntakeHandler{Service: service}
}

// SubmitRequest handles POST bodies. A body carrying a non-empty request_id
// is an update of negotiation fields; anything else is a create.
func (h *IntakeHandler) SubmitRequest(c *fiber.Ctx) error {
	var probe struct {
		RequestID string `json:"request_id"`
	}
	if err := c.BodyParser(&probe); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "Invalid JSON",
		})
	}

	if probe.RequestID != "" {
		var update models.NegotiationUpdate
		if err := c.BodyParser(&update); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"ok":    false,
				"error": "Invalid JSON",
			})
		}
		response, err := h.Service.UpdateRequest(c.Context(), &update)
		if err != nil {
			return renderError(c, err)
		}
		return c.JSON(response)
	}

	var submission models.IntakeSubmission
	if err := c.BodyParser(&submission); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "Invalid JSON",
		})
	}
	response, err := h.Service.CreateRequest(c.Context(), &submission)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(response)
}

// GetResult handles GET /requests/:request_id (also the ?request_id= query
// form) and returns the full stored document.
func (h *IntakeHandler) GetResult(c *fiber.Ctx) error {
	requestID := c.Params("request_id")
	if requestID == "" {
		requestID = c.Query("request_id")
	}
	if requestID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "Missing request_id",
		})
	}

	doc, err := h.Service.GetRequest(c.Context(), requestID)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(fiber.Map{
		"ok":     true,
		"result": doc,
	})
}

// renderError maps pipeline failures onto HTTP responses: validation
// failures are 400 with the full offending-field list, missing or expired
// ids are 404, an unreachable store is 503.
func renderError(c *fiber.Ctx, err error) error {
	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":     false,
			"error":  "Validation failed",
			"errors": verr.Fields,
		})
	}

	var serr *shared.ServiceError
	if errors.As(err, &serr) && serr.Category == shared.ErrorCategoryValidation {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": serr.Message,
		})
	}

	if errors.Is(err, shared.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"ok":    false,
			"error": "Not found",
		})
	}

	if errors.Is(err, shared.ErrStorageUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"ok":    false,
			"error": "Storage unavailable",
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"ok":    false,
		"error": err.Error(),
	})
}
