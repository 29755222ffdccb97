package errors

import (
	"net/http"

	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

type ApplicationError struct {
	HTTPStatusCode int
	Status         string
	Message        string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

func New(httpStatusCode int, status string, message string) error {
	return &ApplicationError{
		HTTPStatusCode: httpStatusCode,
		Status:         status,
		Message:        message,
	}
}

// Destruct returns the underlying ApplicationError, falling back to an
// internal server error for plain errors.
func Destruct(err error) ApplicationError {
	if ae, ok := err.(*ApplicationError); ok {
		return *ae
	}

	return ApplicationError{
		HTTPStatusCode: http.StatusInternalServerError,
		Status:         status.INTERNAL_SERVER_ERROR,
		Message:        err.Error(),
	}
}

// Is reports whether err carries the given status code.
func Is(err error, statusCode string) bool {
	if err == nil {
		return false
	}

	return Destruct(err).Status == statusCode
}
