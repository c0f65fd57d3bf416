package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/service"
	"github.com/noah-isme/remed-api/internal/utils"
)

// DocumentHandler wires student document routes.
type DocumentHandler struct {
	documents service.DocumentService
	logger    zerolog.Logger
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(documents service.DocumentService, logger zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		logger:    logger.With().Str("component", "document_handler").Logger(),
	}
}

// Register attaches document endpoints to the router group.
func (h *DocumentHandler) Register(router fiber.Router) {
	router.Post("", h.upload)
	router.Get("/students/:id", h.listByStudent)
}

func (h *DocumentHandler) upload(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	if actor.ID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	var studentID *uint
	if raw := strings.TrimSpace(c.FormValue("student_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid student_id")
		}
		value := uint(parsed)
		studentID = &value
	} else if actor.Role == models.RoleStudent {
		studentID = actor.StudentID
	}

	// Residents may only attach documents to their own file.
	if actor.Role == models.RoleStudent {
		if actor.StudentID == nil || studentID == nil || *studentID != *actor.StudentID {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
	}

	document, err := h.documents.Upload(c.UserContext(), file, studentID, actor.ID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "document uploaded", document)
}

func (h *DocumentHandler) listByStudent(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	actor := actorFromContext(c)
	if actor.Role == models.RoleStudent && (actor.StudentID == nil || *actor.StudentID != id) {
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}

	documents, err := h.documents.ListByStudent(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "documents retrieved", documents)
}

func (h *DocumentHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrDocumentTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "document exceeds maximum allowed size")
	case errors.Is(err, service.ErrDocumentTypeNotAllowed):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, "document type not allowed")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
