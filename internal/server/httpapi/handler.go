package httpapi

import (
	"errors"
	"net/http"

	"github.com/healthsync/healthsync/internal/common"
	"github.com/healthsync/healthsync/internal/logging"
)

// AppHandler is an HTTP handler that returns an error. MakeHandler
// adapts it to http.HandlerFunc and centralizes error responses.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler converts an AppHandler into a standard http.HandlerFunc.
// Errors returned by the handler are translated into JSON error
// responses. Service sentinel errors map to their HTTP equivalents,
// anything unrecognized becomes a 500.
func MakeHandler(h AppHandler, logger logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		he := toHTTPError(err)
		if he.Code >= http.StatusInternalServerError {
			logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		}

		if writeErr := RespondWithError(w, he); writeErr != nil {
			logger.Error(r.Context(), "failed to write error response", "error", writeErr)
		}
	}
}

func toHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, common.ErrorValidation):
		return NewHTTPErrorWrap(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, common.ErrorAlreadyExists):
		return NewHTTPErrorWrap(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, common.ErrorNotFound):
		return NewHTTPErrorWrap(http.StatusNotFound, msgNotFound, err)
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return NewHTTPErrorWrap(http.StatusUnauthorized, msgUnauthorized, err)
	default:
		return NewHTTPErrorWrap(http.StatusInternalServerError, msgInternalServer, err)
	}
}
