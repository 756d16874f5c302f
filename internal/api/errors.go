package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"itemseek-backend/internal/metrics"
	"itemseek-backend/internal/store"
	"itemseek-backend/internal/transition"
)

// errBadRequest marks a request body or query the handler could not use.
var errBadRequest = errors.New("invalid request")

type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }
func (e *requestError) Unwrap() error { return errBadRequest }

func badRequest(msg string) error {
	return &requestError{msg: msg}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, transition.ErrZeroDelta),
		errors.Is(err, transition.ErrDeltaOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, transition.ErrTerminalStatus),
		errors.Is(err, transition.ErrInsufficientStock),
		errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, transition.ErrUnknownStatus),
		errors.Is(err, transition.ErrBackwardTransition),
		errors.Is(err, transition.ErrSkippedStep),
		errors.Is(err, errStatusMismatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": msg}. Internal failures are logged and
// their detail is kept out of the response.
func (h *Handler) respondError(c *gin.Context, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		msg = "internal server error"
	}
	c.Error(err)
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

// mutationResult records the outcome of a write in the mutations counter.
func mutationResult(kind, action string, err error) {
	result := "ok"
	if err != nil {
		result = http.StatusText(statusFor(err))
	}
	metrics.Mutations.WithLabelValues(kind, action, result).Inc()
}
