package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/service"
)

type stubUserRepo struct {
	users map[uint]models.User
}

func (s *stubUserRepo) List(ctx context.Context) ([]models.User, error) {
	result := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		result = append(result, user)
	}
	return result, nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	s.users[user.ID] = *user
	return nil
}

func guardedApp(t *testing.T) *fiber.App {
	t.Helper()

	studentID := uint(7)
	repo := &stubUserRepo{users: map[uint]models.User{
		1: {ID: 1, Name: "Program Coordinator", Role: models.RoleAdministrator},
		2: {ID: 2, Name: "Jordan Reyes", Role: models.RoleStudent, StudentID: &studentID},
	}}

	app := fiber.New()
	app.Use(Actor(repo))

	echoRole := func(c *fiber.Ctx) error {
		actor, _ := ActorFromCtx(c)
		return c.SendString(string(actor.Role))
	}
	app.Get("/whoami", RequireActor(), echoRole)
	app.Post("/registry", RequireCapability(CapabilityCreate), echoRole)
	app.Get("/activity", RequireView(service.ViewSiteManagement), echoRole)

	return app
}

func TestActorResolvesUser(t *testing.T) {
	app := guardedApp(t)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-User-ID", "2")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestActorRejectsMalformedHeader(t *testing.T) {
	app := guardedApp(t)

	for _, value := range []string{"abc", "-1", "0"} {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("X-User-ID", value)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	}
}

func TestActorRejectsUnknownUser(t *testing.T) {
	app := guardedApp(t)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-User-ID", "99")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireActorBlocksAnonymous(t *testing.T) {
	app := guardedApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireCapabilityMatrix(t *testing.T) {
	app := guardedApp(t)

	req := httptest.NewRequest("POST", "/registry", nil)
	req.Header.Set("X-User-ID", "1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("POST", "/registry", nil)
	req.Header.Set("X-User-ID", "2")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireViewScopesNavigation(t *testing.T) {
	app := guardedApp(t)

	req := httptest.NewRequest("GET", "/activity", nil)
	req.Header.Set("X-User-ID", "1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/activity", nil)
	req.Header.Set("X-User-ID", "2")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
