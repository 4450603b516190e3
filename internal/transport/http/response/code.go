package response

import (
	"context"
	"errors"
	"net/http"

	"go-gin-gorm-cache/internal/domain"
)

// StatusOf maps the domain error taxonomy onto HTTP statuses.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Error builds the failure body for err. Server faults get a generic
// message; the cause belongs in the log, not the response.
func Error(err error) (int, Resp) {
	status := StatusOf(err)
	if status == http.StatusGatewayTimeout {
		return status, Fail("timeout")
	}
	if status >= http.StatusInternalServerError {
		return status, Fail("internal error")
	}
	return status, Fail(err.Error())
}
