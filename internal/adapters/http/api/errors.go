package api

import (
	"errors"
	"net/http"

	"github.com/okian/huddle/internal/adapters/provider/pyespn"
	"github.com/okian/huddle/internal/adapters/repository"
	service "github.com/okian/huddle/internal/app"
	"github.com/okian/huddle/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
)

// Error records the operation that failed and the kind used to pick the
// HTTP status.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Op + ": " + e.Kind.Error()
	case e.Kind == nil:
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// classify maps an error to a status and a machine readable code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, model.ErrInvalidGame):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound),
		errors.Is(err, service.ErrNotTracked),
		errors.Is(err, repository.ErrNotFound),
		errors.Is(err, pyespn.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrInFlight):
		return http.StatusConflict, "in_flight"
	case errors.Is(err, service.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, service.ErrNoPlayData):
		return http.StatusBadGateway, "no_play_data"
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, service.ErrFieldSource):
		return http.StatusServiceUnavailable, "unavailable"
	}
	return http.StatusInternalServerError, "internal"
}
