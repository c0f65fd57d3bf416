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

// GradeHandler wires evaluation and grade HTTP routes.
type GradeHandler struct {
	grades      service.GradeService
	evaluations service.EvaluationService
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewGradeHandler constructs the handler.
func NewGradeHandler(grades service.GradeService, evaluations service.EvaluationService, validator *validator.Validate, logger zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		grades:      grades,
		evaluations: evaluations,
		validator:   validator,
		logger:      logger.With().Str("component", "grade_handler").Logger(),
	}
}

// Register attaches grade endpoints to the router group.
func (h *GradeHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/export", h.exportCSV)
	router.Get("/:id", h.get)
	router.Post("", middleware.RequireCapability(middleware.CapabilityCreate), h.link)
	router.Post("/:id/evaluate", middleware.RequireCapability(middleware.CapabilityEdit), h.evaluate)
	router.Delete("/:id", middleware.RequireCapability(middleware.CapabilityDelete), h.delete)
}

func (h *GradeHandler) list(c *fiber.Ctx) error {
	var req dto.GradeListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	grades, err := h.grades.List(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grades retrieved", grades)
}

func (h *GradeHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	grade, err := h.grades.Get(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade retrieved", grade)
}

func (h *GradeHandler) link(c *fiber.Ctx) error {
	var payload dto.GradeLinkRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	grade, err := h.grades.Link(c.UserContext(), payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "grade linked", grade)
}

func (h *GradeHandler) evaluate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.EvaluateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.evaluations.Evaluate(c.UserContext(), id, payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation finalized", result)
}

func (h *GradeHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.grades.Delete(c.UserContext(), id, actorFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade deleted", fiber.Map{"id": id})
}

func (h *GradeHandler) exportCSV(c *fiber.Ctx) error {
	var req dto.GradeListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	payload, err := h.grades.ExportCSV(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="grades.csv"`)
	return c.Send(payload)
}

func (h *GradeHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrGradeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "grade not found")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrSubjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "rotation not found")
	case errors.Is(err, service.ErrGradeAlreadyLinked):
		return utils.SendError(c, fiber.StatusConflict, "student already linked to rotation")
	case errors.Is(err, service.ErrNoComponents):
		return utils.SendError(c, fiber.StatusBadRequest, "evaluation requires at least one grade component")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *GradeHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
