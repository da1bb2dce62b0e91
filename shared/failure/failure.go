package failure

import (
	"errors"
	"net/http"
)

// Failure is an error that carries the HTTP status it is answered with.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	ForbiddenError          = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
	ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}
)

func (e *Failure) Error() string {
	return e.Message
}

// BadRequest wraps a validation error. A nil error stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return &Failure{Code: http.StatusBadRequest, Message: err.Error()}
}

func BadRequestFromString(msg string) error {
	return &Failure{Code: http.StatusBadRequest, Message: msg}
}

func Unauthorized(msg string) error {
	return &Failure{Code: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) error {
	return &Failure{Code: http.StatusForbidden, Message: msg}
}

// NotFound takes the full message, e.g. "room R101 not found".
func NotFound(msg string) error {
	return &Failure{Code: http.StatusNotFound, Message: msg}
}

// Conflict is used for overlapping bookings, duplicate names and reviews of settled enquiries.
func Conflict(msg string) error {
	return &Failure{Code: http.StatusConflict, Message: msg}
}

// GetCode returns the status of the first Failure in err's chain, 500 when there is none.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// Is reports whether err carries the given status.
func Is(err error, code int) bool {
	var fail *Failure

	return errors.As(err, &fail) && fail.Code == code
}
