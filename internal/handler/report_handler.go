package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/remed-api/internal/dto"
	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/repository"
	"github.com/noah-isme/remed-api/internal/service"
	"github.com/noah-isme/remed-api/internal/utils"
)

// ReportHandler wires grade report HTTP routes.
type ReportHandler struct {
	evaluations service.EvaluationService
	logger      zerolog.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(evaluations service.EvaluationService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		evaluations: evaluations,
		logger:      logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register attaches report endpoints to the router group.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("/:id/accept", h.accept)
}

func (h *ReportHandler) list(c *fiber.Ctx) error {
	filter := repository.ReportFilter{}

	if id, err := parseQueryInt(c, "grade_id"); err == nil && id > 0 {
		value := uint(id)
		filter.GradeID = &value
	}
	if id, err := parseQueryInt(c, "student_id"); err == nil && id > 0 {
		value := uint(id)
		filter.StudentID = &value
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}

	// Residents only ever see their own reports.
	actor := actorFromContext(c)
	if actor.Role == models.RoleStudent {
		if actor.StudentID == nil {
			return utils.SendSuccess(c, "reports retrieved", []dto.ReportResponse{})
		}
		filter.StudentID = actor.StudentID
	}

	reports, err := h.evaluations.ListReports(c.UserContext(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "reports retrieved", reports)
}

func (h *ReportHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.evaluations.GetReport(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	if !h.canAccess(c, report) {
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}

	return utils.SendSuccess(c, "report retrieved", report)
}

func (h *ReportHandler) accept(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AcceptReportRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	report, err := h.evaluations.GetReport(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}
	if !h.canAccess(c, report) {
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}

	accepted, err := h.evaluations.AcceptReport(c.UserContext(), id, payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "report accepted", accepted)
}

func (h *ReportHandler) canAccess(c *fiber.Ctx, report dto.ReportResponse) bool {
	actor := actorFromContext(c)
	if actor.Role != models.RoleStudent {
		return true
	}
	return actor.StudentID != nil && *actor.StudentID == report.StudentID
}

func (h *ReportHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrReportNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "report not found")
	case errors.Is(err, service.ErrReportAlreadyAccepted):
		return utils.SendError(c, fiber.StatusConflict, "report already accepted")
	case errors.Is(err, service.ErrConsentRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "explicit consent is required")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
