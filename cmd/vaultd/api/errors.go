package api

import (
	"net/http"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/multisig"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Code  uint32 `json:"code"`
	Error string `json:"error"`
}

// statusCode maps an error to the HTTP status. Errors of a well formed
// request rejected by the application are unprocessable.
func statusCode(err error) int {
	switch {
	case errors.ErrNotFound.Is(err), multisig.ErrTxNotFound.Is(err):
		return http.StatusNotFound
	case errors.ErrUnauthorized.Is(err):
		return http.StatusUnauthorized
	case errors.ErrInput.Is(err), errors.ErrEmpty.Is(err), errors.ErrType.Is(err), errors.ErrMsg.Is(err):
		return http.StatusBadRequest
	case errors.ErrState.Is(err):
		return http.StatusServiceUnavailable
	case errors.ErrDatabase.Is(err), errors.ErrPanic.Is(err), errors.ErrHuman.Is(err):
		return http.StatusInternalServerError
	}
	code, _ := errors.ABCIInfo(err, false)
	if code == 1 {
		// Not a registered error.
		return http.StatusInternalServerError
	}
	return http.StatusUnprocessableEntity
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if he, ok := err.(*echo.HTTPError); ok {
		_ = c.JSON(he.Code, ErrorResponse{Code: 1, Error: http.StatusText(he.Code)})
		return
	}

	status := statusCode(err)
	code, msg := errors.ABCIInfo(errors.Redact(err), false)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "err", err)
	}
	_ = c.JSON(status, ErrorResponse{Code: code, Error: msg})
}
