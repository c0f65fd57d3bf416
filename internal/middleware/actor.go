package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/repository"
	"github.com/noah-isme/remed-api/internal/service"
	"github.com/noah-isme/remed-api/internal/utils"
)

// Actor resolves the acting user from the X-User-ID header and binds it to the
// request. Requests without the header continue anonymously; guards further
// down the chain decide whether that is acceptable.
func Actor(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get("X-User-ID"))
		if raw == "" {
			return c.Next()
		}

		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid X-User-ID header")
		}

		user, err := users.GetByID(c.UserContext(), uint(id))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.SendError(c, fiber.StatusUnauthorized, "unknown user")
			}
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to resolve user")
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_role", string(user.Role))
		c.Locals("actor", service.ActivityActor{
			ID:        user.ID,
			Role:      user.Role,
			StudentID: user.StudentID,
			TeacherID: user.TeacherID,
		})

		return c.Next()
	}
}

// ActorFromCtx returns the resolved actor for the request, if any.
func ActorFromCtx(c *fiber.Ctx) (service.ActivityActor, bool) {
	value := c.Locals("actor")
	if value == nil {
		return service.ActivityActor{}, false
	}
	actor, ok := value.(service.ActivityActor)
	return actor, ok
}
