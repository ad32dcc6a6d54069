package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/middleware"
	"github.com/learnhub-io/learnhub-api/internal/service"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// SubmissionHandler wires the assignment submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches submission endpoints to the router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Put("/assignments/:assignmentID/users/:userID", h.submit)
	router.Get("/assignments/:assignmentID/users/:userID", h.get)
	router.Get("/assignments/:assignmentID", h.list)
	router.Patch("/:id/grade", middleware.WithAuth(h.grade, middleware.AuthOptions{Role: middleware.AuthRoleTeacher}))
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "assignmentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.SubmissionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	submission, err := h.service.RecordAssignmentSubmission(c.Context(), assignmentID, userID, payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to record submission")
	}
	return utils.SendSuccess(c, "submission recorded", submission)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "assignmentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	submission, err := h.service.GetSubmission(c.Context(), assignmentID, userID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to load submission")
	}
	return utils.SendSuccess(c, "submission", submission)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "assignmentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	submissions, err := h.service.ListSubmissions(c.Context(), assignmentID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to list submissions")
	}
	return utils.SendSuccess(c, "submissions", submissions)
}

func (h *SubmissionHandler) grade(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.SubmissionGradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	submission, err := h.service.GradeSubmission(c.Context(), id, payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to grade submission")
	}
	return utils.SendSuccess(c, "submission graded", submission)
}
