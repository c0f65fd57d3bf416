package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/remed-api/internal/dto"
	"github.com/noah-isme/remed-api/internal/service"
	"github.com/noah-isme/remed-api/internal/utils"
)

// UserHandler wires actor selection and permission routes.
type UserHandler struct {
	registry service.RegistryService
	logger   zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(registry service.RegistryService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		registry: registry,
		logger:   logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register attaches user endpoints to the router group.
func (h *UserHandler) Register(users fiber.Router, me fiber.Router) {
	users.Get("", h.list)
	me.Get("/permissions", h.permissions)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	users, err := h.registry.ListUsers(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "users retrieved", users)
}

func (h *UserHandler) permissions(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	permissions := service.DerivePermissions(actor.Role)

	return utils.SendSuccess(c, "permissions derived", dto.PermissionResponse{
		Role:         actor.Role,
		CanCreate:    permissions.CanCreate,
		CanEdit:      permissions.CanEdit,
		CanDelete:    permissions.CanDelete,
		VisibleViews: permissions.ViewNames(),
	})
}
