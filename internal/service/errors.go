package service

import "errors"

// Not-found errors: a referenced entity does not exist.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrProgressNotFound   = errors.New("progress record not found")
	ErrActivityNotFound   = errors.New("activity not found")
	ErrDiscussionNotFound = errors.New("discussion not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

// Validation errors: the request is well formed but violates a domain rule.
var (
	ErrWeightSumInvalid   = errors.New("grade weights must sum to 100")
	ErrGradeExceedsPoints = errors.New("grade exceeds assignment points")
	ErrEmptyAfterSanitize = errors.New("content empty after sanitization")
)

// Conflict errors: a unique constraint would be violated.
var (
	ErrAlreadyEnrolled = errors.New("user already enrolled in course")
	ErrDuplicateReview = errors.New("user already reviewed this course")
)
