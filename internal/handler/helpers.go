package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/service"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := c.Params(name)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func parseQueryUint(c *fiber.Ctx, key string) (*uint, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, err
	}
	result := uint(parsed)
	return &result, nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// notFoundErrors map to 404, conflictErrors to 409. Validation sentinels and
// validator.ValidationErrors map to 400; anything else is a 500.
var notFoundErrors = []error{
	service.ErrUserNotFound,
	service.ErrCourseNotFound,
	service.ErrResourceNotFound,
	service.ErrAssignmentNotFound,
	service.ErrSubmissionNotFound,
	service.ErrProgressNotFound,
	service.ErrActivityNotFound,
	service.ErrDiscussionNotFound,
	service.ErrEnrollmentNotFound,
}

var badRequestErrors = []error{
	service.ErrWeightSumInvalid,
	service.ErrGradeExceedsPoints,
	service.ErrEmptyAfterSanitize,
}

var conflictErrors = []error{
	service.ErrAlreadyEnrolled,
	service.ErrDuplicateReview,
}

func handleError(c *fiber.Ctx, logger zerolog.Logger, err error, fallback string) error {
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			return utils.SendError(c, fiber.StatusNotFound, sentinel.Error())
		}
	}
	for _, sentinel := range badRequestErrors {
		if errors.Is(err, sentinel) {
			return utils.SendError(c, fiber.StatusBadRequest, sentinel.Error())
		}
	}
	for _, sentinel := range conflictErrors {
		if errors.Is(err, sentinel) {
			return utils.SendError(c, fiber.StatusConflict, sentinel.Error())
		}
	}
	if isValidationError(err) {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	logger.Error().Err(err).Msg(fallback)
	return utils.SendError(c, fiber.StatusInternalServerError, fallback)
}
