package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/service"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// GradeHandler wires the grade setting and student grade endpoints.
type GradeHandler struct {
	service service.GradeService
	logger  zerolog.Logger
}

// NewGradeHandler constructs the handler.
func NewGradeHandler(service service.GradeService, logger zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		service: service,
		logger:  logger.With().Str("component", "grade_handler").Logger(),
	}
}

// Register attaches grade endpoints to the router group.
func (h *GradeHandler) Register(router fiber.Router) {
	router.Get("/courses/:courseID/settings", h.getSetting)
	router.Put("/courses/:courseID/settings", h.setSetting)
	router.Get("/courses/:courseID", h.courseGrades)
	router.Put("/courses/:courseID/batch", h.batchUpsert)
	router.Get("/courses/:courseID/users/:userID", h.getStudentGrade)
	router.Put("/courses/:courseID/users/:userID", h.upsertStudentGrade)
}

func (h *GradeHandler) getSetting(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	setting, err := h.service.GetGradeSetting(c.Context(), courseID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to load grade setting")
	}
	return utils.SendSuccess(c, "grade setting", setting)
}

func (h *GradeHandler) setSetting(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.GradeSettingRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	setting, err := h.service.SetGradeSetting(c.Context(), courseID, payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to save grade setting")
	}
	return utils.SendSuccess(c, "grade setting saved", setting)
}

func (h *GradeHandler) courseGrades(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	sheet, err := h.service.GetCourseGrades(c.Context(), courseID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to load course grades")
	}
	return utils.SendSuccess(c, "course grades", sheet)
}

func (h *GradeHandler) batchUpsert(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.BatchGradeUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.BatchUpsertGrades(c.Context(), courseID, payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to update grades")
	}
	return utils.SendSuccess(c, "grades updated", result)
}

func (h *GradeHandler) getStudentGrade(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	grade, err := h.service.GetStudentGrade(c.Context(), userID, courseID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to load student grade")
	}
	return utils.SendSuccess(c, "student grade", grade)
}

func (h *GradeHandler) upsertStudentGrade(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.StudentGradeUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	grade, err := h.service.UpsertStudentGrade(c.Context(), userID, courseID, payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to save student grade")
	}
	return utils.SendSuccess(c, "student grade saved", grade)
}
