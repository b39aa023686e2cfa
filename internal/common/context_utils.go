package common

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const ActorIDKey contextKey = "actor_id"

// WithActorID returns a context carrying the authenticated actor's user id.
func WithActorID(ctx context.Context, actorID uuid.UUID) context.Context {
	return context.WithValue(ctx, ActorIDKey, actorID)
}

// GetActorIDFromContext extracts the acting user id from the request context.
func GetActorIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	actorID, ok := ctx.Value(ActorIDKey).(uuid.UUID)
	return actorID, ok
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendError maps a typed service error to an HTTP response with the
// matching status code. Untyped errors become a generic 500.
func SendError(c echo.Context, err error) error {
	kind := KindOf(err)
	status := http.StatusInternalServerError
	message := "operation could not be completed"

	switch kind {
	case KindUnauthenticated:
		status = http.StatusUnauthorized
	case KindAccessDenied:
		status = http.StatusForbidden
	case KindNotFound:
		status = http.StatusNotFound
	case KindInvalidState:
		status = http.StatusConflict
	case KindValidation:
		status = http.StatusBadRequest
	}
	if kind != "" {
		message = err.Error()
	} else {
		kind = "SERVER_ERROR"
	}
	return c.JSON(status, CreateErrorResponse(kind, message, nil))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// ValidateUUID validates UUID path and body parameters.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, Validationf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, Validationf("%s is not a valid UUID", fieldName)
	}
	return id, nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return Validationf("%s is required", fieldName)
	}
	return nil
}

// ValidateEmail validates email address fields.
func ValidateEmail(value, fieldName string) error {
	if _, err := mail.ParseAddress(value); err != nil {
		return Validationf("%s is not a valid email address", fieldName)
	}
	return nil
}

// ValidateDate parses a YYYY-MM-DD date string.
func ValidateDate(dateStr, fieldName string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, Validationf("%s must be in YYYY-MM-DD format", fieldName)
	}
	return d, nil
}

// ValidateFiscalYear bounds fiscal years to a sane window.
func ValidateFiscalYear(year int) error {
	if year < 2000 || year > 2100 {
		return Validation("fiscal_year must be between 2000 and 2100")
	}
	return nil
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s, or nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ValidatePaginationParams validates pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
