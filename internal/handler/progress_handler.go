package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/service"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// ProgressHandler wires the progress endpoints.
type ProgressHandler struct {
	service service.ProgressService
	logger  zerolog.Logger
}

// NewProgressHandler constructs the handler.
func NewProgressHandler(service service.ProgressService, logger zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		service: service,
		logger:  logger.With().Str("component", "progress_handler").Logger(),
	}
}

// Register attaches progress endpoints to the router group.
func (h *ProgressHandler) Register(router fiber.Router) {
	router.Put("/users/:userID/resources/:resourceID", h.recordResource)
	router.Get("/users/:userID/resources/:resourceID", h.getResource)
	router.Get("/users/:userID/courses/:courseID", h.getCourse)
	router.Post("/users/:userID/courses/:courseID/recompute", h.recompute)
}

func (h *ProgressHandler) recordResource(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	resourceID, err := parseUintParam(c, "resourceID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.ResourceProgressUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	progress, err := h.service.RecordResourceCompletion(c.Context(), userID, resourceID, payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to record resource progress")
	}
	return utils.SendSuccess(c, "resource progress recorded", progress)
}

func (h *ProgressHandler) getResource(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	resourceID, err := parseUintParam(c, "resourceID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	progress, err := h.service.GetResourceProgress(c.Context(), userID, resourceID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to load resource progress")
	}
	return utils.SendSuccess(c, "resource progress", progress)
}

func (h *ProgressHandler) getCourse(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	progress, err := h.service.GetCourseProgress(c.Context(), userID, courseID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to load course progress")
	}
	return utils.SendSuccess(c, "course progress", progress)
}

func (h *ProgressHandler) recompute(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	progress, err := h.service.ComputeCourseProgress(c.Context(), userID, courseID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to recompute course progress")
	}
	return utils.SendSuccess(c, "course progress recomputed", progress)
}
