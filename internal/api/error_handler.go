package api

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/vytor/cardrank/internal/errors"
	"github.com/vytor/cardrank/internal/logger"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// handleError centralizes error handling for HTTP responses
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else {
		log.Warn("client error: %v", appErr)
	}

	if appErr.Retryable() {
		w.Header().Set("Retry-After", "1")
	}

	if wantsJSON(r) || s.Templates == nil {
		writeJSON(w, r, appErr.Status, errorBody{Error: errorDetail{
			Code:      appErr.Code,
			Message:   appErr.Message,
			Retryable: appErr.Retryable(),
		}})
		return
	}

	s.render(w, r, appErr.Status, "error.html", pageData{
		"title":   "Error",
		"message": appErr.Message,
		"code":    appErr.Code,
	})
}

// wantsJSON reports whether the response for r should be JSON rather than HTML.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/compare" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func errNotFoundRoute(r *http.Request) error {
	return errors.NewNotFoundError("route", r.URL.Path)
}
