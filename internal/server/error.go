package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pfrederiksen/campus-events/internal/query"
	"github.com/pfrederiksen/campus-events/internal/service"
)

// apiError is the JSON error envelope every failing route responds with.
type apiError struct {
	Status  int    `json:"-"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func errNotFound(message string) *apiError {
	return &apiError{Status: http.StatusNotFound, Reason: "not_found", Message: message}
}

func errInvalid(message string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Reason: "invalid_argument", Message: message}
}

// coerce maps domain errors onto the envelope. Anything unrecognized is an
// internal error; the original message stays out of the response.
func coerce(err error) *apiError {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae
	}

	var pe *service.ParseError
	if errors.As(err, &pe) {
		return errInvalid(pe.Error())
	}
	if errors.Is(err, query.ErrInvalidRange) {
		return errInvalid(err.Error())
	}
	if errors.Is(err, service.ErrNoData) {
		return &apiError{
			Status:  http.StatusServiceUnavailable,
			Reason:  "no_data",
			Message: "event data unavailable, try again shortly",
		}
	}

	return &apiError{
		Status:  http.StatusInternalServerError,
		Reason:  "internal",
		Message: "internal server error",
	}
}
