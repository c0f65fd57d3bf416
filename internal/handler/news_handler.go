package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/remed-api/internal/service"
	"github.com/noah-isme/remed-api/internal/utils"
)

// NewsHandler wires programme news routes.
type NewsHandler struct {
	news   service.NewsService
	logger zerolog.Logger
}

// NewNewsHandler constructs the handler.
func NewNewsHandler(news service.NewsService, logger zerolog.Logger) *NewsHandler {
	return &NewsHandler{
		news:   news,
		logger: logger.With().Str("component", "news_handler").Logger(),
	}
}

// Register attaches news endpoints to the router group.
func (h *NewsHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *NewsHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page parameter")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size parameter")
	}

	news, err := h.news.ListActive(c.UserContext(), page, pageSize)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "news retrieved", news)
}
