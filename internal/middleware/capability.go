package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/remed-api/internal/service"
	"github.com/noah-isme/remed-api/internal/utils"
)

// Capability names the mutation classes derived from a role.
type Capability string

const (
	CapabilityCreate Capability = "create"
	CapabilityEdit   Capability = "edit"
	CapabilityDelete Capability = "delete"
)

// RequireActor ensures the request carries a resolved user.
func RequireActor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := ActorFromCtx(c); !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}

// RequireView ensures the acting user's role grants access to the given view.
func RequireView(view service.View) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromCtx(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		permissions := service.DerivePermissions(actor.Role)
		if !permissions.CanView(view) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}

		return c.Next()
	}
}

// RequireCapability ensures the acting user's role grants the mutation class.
func RequireCapability(capability Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromCtx(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		permissions := service.DerivePermissions(actor.Role)
		allowed := false
		switch capability {
		case CapabilityCreate:
			allowed = permissions.CanCreate
		case CapabilityEdit:
			allowed = permissions.CanEdit
		case CapabilityDelete:
			allowed = permissions.CanDelete
		}

		if !allowed {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}

		return c.Next()
	}
}
