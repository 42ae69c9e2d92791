package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/observability"
	"github.com/matzehuels/arbor/pkg/store"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// classify turns any error into a code and user-facing message.
func classify(err error) (errors.Code, string) {
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return errors.ErrCodeNotFound, "layout not found"
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.ErrCodeTimeout, "request timed out"
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Code == errors.ErrCodeInternal {
		return errors.ErrCodeInternal, "internal error"
	}
	if e.Cause != nil {
		return e.Code, e.Message + ": " + e.Cause.Error()
	}
	return e.Code, e.Message
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := classify(err)
	status := code.HTTPStatus()
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
