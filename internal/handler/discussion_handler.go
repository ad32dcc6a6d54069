package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/service"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// DiscussionHandler wires the course discussion endpoints.
type DiscussionHandler struct {
	service service.DiscussionService
	logger  zerolog.Logger
}

// NewDiscussionHandler constructs the handler.
func NewDiscussionHandler(service service.DiscussionService, logger zerolog.Logger) *DiscussionHandler {
	return &DiscussionHandler{
		service: service,
		logger:  logger.With().Str("component", "discussion_handler").Logger(),
	}
}

// Register attaches discussion endpoints to the router group.
func (h *DiscussionHandler) Register(router fiber.Router) {
	router.Post("/courses/:courseID", h.create)
	router.Get("/courses/:courseID", h.list)
	router.Get("/:id", h.get)
	router.Post("/:id/replies", h.reply)
}

func (h *DiscussionHandler) create(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.DiscussionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	discussion, err := h.service.CreateDiscussion(c.Context(), courseID, payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to create discussion")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "discussion created", discussion)
}

func (h *DiscussionHandler) list(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	discussions, err := h.service.ListCourseDiscussions(c.Context(), courseID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to list discussions")
	}
	return utils.SendSuccess(c, "course discussions", discussions)
}

func (h *DiscussionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	discussion, err := h.service.GetDiscussion(c.Context(), id)
	if err != nil {
		return handleError(c, h.logger, err, "failed to load discussion")
	}
	return utils.SendSuccess(c, "discussion", discussion)
}

func (h *DiscussionHandler) reply(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.DiscussionReplyCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	reply, err := h.service.ReplyToDiscussion(c.Context(), id, payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to post reply")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "reply posted", reply)
}
