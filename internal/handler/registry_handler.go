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

// RegistryHandler wires resident, teacher and rotation registry routes.
type RegistryHandler struct {
	registry service.RegistryService
	logger   zerolog.Logger
}

// NewRegistryHandler constructs the handler.
func NewRegistryHandler(registry service.RegistryService, logger zerolog.Logger) *RegistryHandler {
	return &RegistryHandler{
		registry: registry,
		logger:   logger.With().Str("component", "registry_handler").Logger(),
	}
}

// Register attaches registry endpoints to the router group.
func (h *RegistryHandler) Register(router fiber.Router) {
	router.Get("/students", h.listStudents)
	router.Post("/students", middleware.RequireCapability(middleware.CapabilityCreate), h.createStudent)
	router.Get("/subjects", h.listSubjects)
	router.Post("/subjects", middleware.RequireCapability(middleware.CapabilityCreate), h.createSubject)
	router.Get("/teachers", h.listTeachers)
}

func (h *RegistryHandler) listStudents(c *fiber.Ctx) error {
	students, err := h.registry.ListStudents(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *RegistryHandler) createStudent(c *fiber.Ctx) error {
	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.registry.CreateStudent(c.UserContext(), payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student created", student)
}

func (h *RegistryHandler) listSubjects(c *fiber.Ctx) error {
	subjects, err := h.registry.ListSubjects(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "rotations retrieved", subjects)
}

func (h *RegistryHandler) createSubject(c *fiber.Ctx) error {
	var payload dto.SubjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	subject, err := h.registry.CreateSubject(c.UserContext(), payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "rotation created", subject)
}

func (h *RegistryHandler) listTeachers(c *fiber.Ctx) error {
	teachers, err := h.registry.ListTeachers(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "teachers retrieved", teachers)
}

func (h *RegistryHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrTeacherNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
