package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a classified error: a code constant plus default text.
type ErrorInfo struct {
	Code    string
	Message string
}

// IsNotFound reports whether err is a missing-record lookup result.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
// GORM's TranslateError covers postgres and sqlite; the string checks are a
// fallback for drivers that surface the raw error.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// ParseError converts an arbitrary error into a code and user-facing
// message. Sensitive driver detail never reaches the response; the raw
// error is logged at the call site before translation.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Internal server error"}
	}

	if IsNotFound(err) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	if IsDuplicateKey(err) {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Record already exists"}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Failed to reach an external service, please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "store") {
		return "Store not found"
	}
	if strings.Contains(contextLower, "user") {
		return "User not found"
	}
	return "Requested record not found"
}

func defaultMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "register") {
		return "Registration failed, please try again later"
	}
	if strings.Contains(contextLower, "upload") {
		return "Upload failed, please try again later"
	}
	return "Internal server error"
}
