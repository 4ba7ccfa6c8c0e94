package apperror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Kind int

const (
	KindClient Kind = iota + 1
	KindAuth
	KindUpstream
)

type ErrorCode string

const (
	ErrorCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrorCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrorCodeUpstream        ErrorCode = "UPSTREAM_FAILURE"
	ErrorCodeInternalFailure ErrorCode = "INTERNAL_FAILURE"
)

// AppError is an error that already knows how it should be reported to the
// caller. Message is always safe to show; Err is for logs only.
type AppError struct {
	Kind    Kind
	Status  int
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Client reports malformed or missing input (400).
func Client(msg string) *AppError {
	return &AppError{Kind: KindClient, Status: http.StatusBadRequest, Code: ErrorCodeValidation, Message: msg}
}

// Auth reports missing or unusable credentials (401).
func Auth(msg string) *AppError {
	return &AppError{Kind: KindAuth, Status: http.StatusUnauthorized, Code: ErrorCodeUnauthorized, Message: msg}
}

// Upstream reports a provider or transport failure (500). msg is the generic
// text returned to the caller, cause stays server side.
func Upstream(msg string, cause error) *AppError {
	return &AppError{Kind: KindUpstream, Status: http.StatusInternalServerError, Code: ErrorCodeUpstream, Message: msg, Err: cause}
}

// Classify passes already classified errors through and turns anything else
// into an Upstream error carrying msg.
func Classify(err error, msg string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Upstream(msg, err)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// Send writes err as the JSON error body and aborts the gin chain.
func Send(c *gin.Context, err error) {
	var appErr *AppError

	if errors.As(err, &appErr) {
		c.AbortWithStatusJSON(appErr.Status, gin.H{
			"detail": appErr.Message,
			"code":   appErr.Code,
		})
		return
	}

	// Default to 500 for unknown errors
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"detail": "Internal Server Error",
		"code":   ErrorCodeInternalFailure,
	})
}
