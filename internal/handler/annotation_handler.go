package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/remed-api/internal/dto"
	"github.com/noah-isme/remed-api/internal/middleware"
	"github.com/noah-isme/remed-api/internal/service"
	"github.com/noah-isme/remed-api/internal/utils"
)

// AnnotationHandler wires behavioral annotation HTTP routes.
type AnnotationHandler struct {
	annotations service.AnnotationService
	logger      zerolog.Logger
}

// NewAnnotationHandler constructs the handler.
func NewAnnotationHandler(annotations service.AnnotationService, logger zerolog.Logger) *AnnotationHandler {
	return &AnnotationHandler{
		annotations: annotations,
		logger:      logger.With().Str("component", "annotation_handler").Logger(),
	}
}

// Register attaches annotation endpoints to the router group.
func (h *AnnotationHandler) Register(router fiber.Router) {
	router.Get("", h.history)
	router.Post("", middleware.RequireCapability(middleware.CapabilityCreate), h.create)
	router.Delete("/:id", middleware.RequireCapability(middleware.CapabilityDelete), h.delete)
}

func (h *AnnotationHandler) history(c *fiber.Ctx) error {
	var req dto.AnnotationHistoryRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	annotations, err := h.annotations.History(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "annotations retrieved", annotations)
}

func (h *AnnotationHandler) create(c *fiber.Ctx) error {
	var payload dto.AnnotationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	annotation, err := h.annotations.Create(c.UserContext(), payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "annotation created", annotation)
}

func (h *AnnotationHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.annotations.Delete(c.UserContext(), id, actorFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "annotation deleted", fiber.Map{"id": id})
}

func (h *AnnotationHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrAnnotationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "annotation not found")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
