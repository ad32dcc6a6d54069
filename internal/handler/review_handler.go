package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/service"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// ReviewHandler wires the course review endpoints.
type ReviewHandler struct {
	service service.ReviewService
	logger  zerolog.Logger
}

// NewReviewHandler constructs the handler.
func NewReviewHandler(service service.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger.With().Str("component", "review_handler").Logger(),
	}
}

// Register attaches review endpoints to the router group.
func (h *ReviewHandler) Register(router fiber.Router) {
	router.Post("/courses/:courseID", h.create)
	router.Get("/courses/:courseID", h.list)
}

func (h *ReviewHandler) create(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.ReviewCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	review, err := h.service.CreateReview(c.Context(), courseID, payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to create review")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "review created", review)
}

func (h *ReviewHandler) list(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	reviews, err := h.service.ListCourseReviews(c.Context(), courseID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to list reviews")
	}
	return utils.SendSuccess(c, "course reviews", reviews)
}
