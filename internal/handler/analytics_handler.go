package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/service"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// AnalyticsHandler wires the dashboard rollup endpoints.
type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  zerolog.Logger
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(service service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With().Str("component", "analytics_handler").Logger(),
	}
}

// Register attaches analytics endpoints to the router group.
func (h *AnalyticsHandler) Register(router fiber.Router) {
	router.Get("/users/:userID", h.userAnalytics)
	router.Get("/courses/:courseID", h.courseAnalytics)
	router.Get("/courses/:courseID/performance", h.classPerformance)
	router.Get("/system", h.systemOverview)
}

func (h *AnalyticsHandler) userAnalytics(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	analytics, err := h.service.GetUserAnalytics(c.Context(), userID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to load user analytics")
	}
	return utils.SendSuccess(c, "user analytics", analytics)
}

func (h *AnalyticsHandler) courseAnalytics(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	analytics, err := h.service.GetCourseAnalytics(c.Context(), courseID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to load course analytics")
	}
	return utils.SendSuccess(c, "course analytics", analytics)
}

func (h *AnalyticsHandler) classPerformance(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	report, err := h.service.GetClassPerformance(c.Context(), courseID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to load class performance")
	}
	return utils.SendSuccess(c, "class performance", report)
}

func (h *AnalyticsHandler) systemOverview(c *fiber.Ctx) error {
	overview, err := h.service.GetSystemOverview(c.Context())
	if err != nil {
		return handleError(c, h.logger, err, "failed to load system overview")
	}
	return utils.SendSuccess(c, "system overview", overview)
}
