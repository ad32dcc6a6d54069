package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/service"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// EnrollmentHandler wires the enrollment endpoints.
type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  zerolog.Logger
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(service service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service: service,
		logger:  logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register attaches enrollment endpoints to the router group.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Post("/", h.enroll)
	router.Delete("/users/:userID/courses/:courseID", h.withdraw)
	router.Get("/users/:userID/courses", h.listCourses)
}

func (h *EnrollmentHandler) enroll(c *fiber.Ctx) error {
	var payload dto.EnrollmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	enrollment, err := h.service.Enroll(c.Context(), payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to enroll user")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enrolled", enrollment)
}

func (h *EnrollmentHandler) withdraw(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Withdraw(c.Context(), userID, courseID); err != nil {
		return handleError(c, h.logger, err, "failed to withdraw user")
	}
	return utils.SendSuccess(c, "withdrawn", nil)
}

func (h *EnrollmentHandler) listCourses(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	courses, err := h.service.ListUserCourses(c.Context(), userID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to list user courses")
	}
	return utils.SendSuccess(c, "enrolled courses", courses)
}
