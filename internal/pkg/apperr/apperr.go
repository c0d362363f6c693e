package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// AppError is a service error carrying the HTTP status it should surface as.
// Services return these (usually wrapped); the server's error middleware
// unwraps them into the response envelope.
type AppError struct {
	Code    string
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func New(code string, status int, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error codes for the session Q&A domain.
const (
	CodeSessionNotFound       = "SESSION_NOT_FOUND"
	CodeSessionExpired        = "SESSION_EXPIRED"
	CodeDocumentNotFound      = "DOCUMENT_NOT_FOUND"
	CodeValidation            = "VALIDATION_ERROR"
	CodeExtractionFailure     = "EXTRACTION_FAILURE"
	CodeEmbeddingUnavailable  = "EMBEDDING_UNAVAILABLE"
	CodeGenerationUnavailable = "GENERATION_UNAVAILABLE"
	CodeNoDocuments           = "NO_DOCUMENTS"
)

func SessionNotFound(sessionID string) *AppError {
	return New(CodeSessionNotFound, fiber.StatusNotFound, "session '%s' not found", sessionID)
}

// SessionExpired is reported only by the health endpoint, briefly after the
// sweep reclaimed a session. Everywhere else an expired session is a plain
// SessionNotFound.
func SessionExpired(sessionID string) *AppError {
	return New(CodeSessionExpired, fiber.StatusGone, "session '%s' has expired", sessionID)
}

func DocumentNotFound(docID string) *AppError {
	return New(CodeDocumentNotFound, fiber.StatusNotFound, "document '%s' not found", docID)
}

func Validation(format string, args ...interface{}) *AppError {
	return New(CodeValidation, fiber.StatusBadRequest, format, args...)
}

func Malformed(format string, args ...interface{}) *AppError {
	return New(CodeValidation, fiber.StatusUnprocessableEntity, format, args...)
}

func ExtractionFailure(format string, args ...interface{}) *AppError {
	return New(CodeExtractionFailure, fiber.StatusBadRequest, format, args...)
}

func EmbeddingUnavailable(err error) *AppError {
	return New(CodeEmbeddingUnavailable, fiber.StatusBadGateway, "embedding provider unavailable: %v", err)
}

func GenerationUnavailable(err error) *AppError {
	return New(CodeGenerationUnavailable, fiber.StatusBadGateway, "generation provider unavailable: %v", err)
}

func NoDocuments() *AppError {
	return New(CodeNoDocuments, fiber.StatusBadRequest, "no documents available for this query")
}

// From extracts an *AppError from an error chain, if present.
func From(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries the given error code.
func Is(err error, code string) bool {
	if appErr, ok := From(err); ok {
		return appErr.Code == code
	}
	return false
}
