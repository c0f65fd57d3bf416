package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/remed-api/internal/dto"
	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/service"
	"github.com/noah-isme/remed-api/internal/utils"
)

// SurveyHandler wires rotation survey HTTP routes.
type SurveyHandler struct {
	surveys service.SurveyService
	logger  zerolog.Logger
}

// NewSurveyHandler constructs the handler.
func NewSurveyHandler(surveys service.SurveyService, logger zerolog.Logger) *SurveyHandler {
	return &SurveyHandler{
		surveys: surveys,
		logger:  logger.With().Str("component", "survey_handler").Logger(),
	}
}

// Register attaches survey endpoints to the router group.
func (h *SurveyHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("/:id/complete", h.complete)
}

func (h *SurveyHandler) list(c *fiber.Ctx) error {
	var req dto.SurveyListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	// Residents only ever see their own surveys.
	actor := actorFromContext(c)
	if actor.Role == models.RoleStudent {
		if actor.StudentID == nil {
			return utils.SendSuccess(c, "surveys retrieved", []dto.SurveyResponse{})
		}
		req.StudentID = actor.StudentID
	}

	surveys, err := h.surveys.List(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "surveys retrieved", surveys)
}

func (h *SurveyHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	survey, err := h.surveys.Get(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	if !h.canAccess(c, survey) {
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}

	return utils.SendSuccess(c, "survey retrieved", survey)
}

func (h *SurveyHandler) complete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SurveyCompleteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	survey, err := h.surveys.Get(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}
	if !h.canAccess(c, survey) {
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}

	completed, err := h.surveys.Complete(c.UserContext(), id, payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "survey completed", completed)
}

func (h *SurveyHandler) canAccess(c *fiber.Ctx, survey dto.SurveyResponse) bool {
	actor := actorFromContext(c)
	if actor.Role != models.RoleStudent {
		return true
	}
	return actor.StudentID != nil && *actor.StudentID == survey.StudentID
}

func (h *SurveyHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSurveyNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "survey not found")
	case errors.Is(err, service.ErrSurveyAlreadyCompleted):
		return utils.SendError(c, fiber.StatusConflict, "survey already completed")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
