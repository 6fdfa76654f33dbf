package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrResponseNotFound   = errors.New("assessment response not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrVerificationFailed = errors.New("bot verification failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrReportNotAvailable = errors.New("report not available")
	ErrReceiptAlreadySet  = errors.New("submission receipt already recorded")
)

// RateLimitedError carries the retry-after hint surfaced with a 429.
type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %ds", e.RetryAfterSeconds)
}

// DuplicateSubmissionError signals that this browser/client already holds a
// receipt for a completed submission; the original response ID is returned so
// the caller can jump straight to results.
type DuplicateSubmissionError struct {
	ResponseID string
}

func (e *DuplicateSubmissionError) Error() string {
	return "submission already recorded for this client"
}
