package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/service"
	"github.com/noah-isme/remed-api/internal/utils"
)

// DashboardHandler wires the student dashboard route.
type DashboardHandler struct {
	dashboard service.StudentDashboardService
	logger    zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(dashboard service.StudentDashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		logger:    logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches dashboard endpoints to the router group.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/students/:id", h.studentDashboard)
	router.Get("/me", h.myDashboard)
}

func (h *DashboardHandler) studentDashboard(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	actor := actorFromContext(c)
	if actor.Role == models.RoleStudent && (actor.StudentID == nil || *actor.StudentID != id) {
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}

	dashboard, err := h.dashboard.GetDashboard(c.UserContext(), id)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) myDashboard(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	if actor.StudentID == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "acting user is not linked to a student")
	}

	dashboard, err := h.dashboard.GetDashboard(c.UserContext(), *actor.StudentID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}
