package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/repository"
	"github.com/learnhub-io/learnhub-api/internal/service"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// ActivityHandler wires the learning activity endpoints.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches activity endpoints to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Post("/", h.record)
	router.Get("/", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *ActivityHandler) record(c *fiber.Ctx) error {
	var payload dto.ActivityCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	activity, err := h.service.RecordActivity(c.Context(), payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to record activity")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "activity recorded", activity)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	filter := repository.ActivityFilter{}

	userID, err := parseQueryUint(c, "user_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user_id")
	}
	filter.UserID = userID

	courseID, err := parseQueryUint(c, "course_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course_id")
	}
	filter.CourseID = courseID

	if activityType := strings.TrimSpace(c.Query("activity_type")); activityType != "" {
		filter.ActivityType = &activityType
	}
	if completed := strings.TrimSpace(c.Query("completed")); completed != "" {
		value := completed == "true"
		filter.Completed = &value
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	filter.Limit = limit

	activities, err := h.service.ListActivities(c.Context(), filter)
	if err != nil {
		return handleError(c, h.logger, err, "failed to list activities")
	}
	return utils.SendSuccess(c, "activities", activities)
}

func (h *ActivityHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	activity, err := h.service.GetActivity(c.Context(), id)
	if err != nil {
		return handleError(c, h.logger, err, "failed to load activity")
	}
	return utils.SendSuccess(c, "activity", activity)
}

func (h *ActivityHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.ActivityUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	activity, err := h.service.UpdateActivity(c.Context(), id, payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to update activity")
	}
	return utils.SendSuccess(c, "activity updated", activity)
}

func (h *ActivityHandler) remove(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.DeleteActivity(c.Context(), id); err != nil {
		return handleError(c, h.logger, err, "failed to delete activity")
	}
	return utils.SendSuccess(c, "activity deleted", nil)
}
