package server

import (
	"errors"
	"net/http"

	"github.com/desertthunder/movieplex/internal/shared"
)

type envelope map[string]any

// writeJSON writes v as indented JSON with status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, envelope{"error": message})
}

func (s *Server) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	s.errorResponse(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func (s *Server) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, http.StatusNotFound, "the requested resource could not be found")
}

func (s *Server) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, http.StatusMethodNotAllowed, "the "+r.Method+" method is not supported for this resource")
}

func (s *Server) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "1")
	s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
}

func (s *Server) serviceUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("upstream unavailable", "method", r.Method, "path", r.URL.Path, "error", err)
	w.Header().Set("Retry-After", "30")
	s.errorResponse(w, http.StatusServiceUnavailable, err.Error())
}

func (s *Server) notImplementedResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, http.StatusNotImplemented, shared.ErrNotImplemented.Error())
}

// errorFor maps err onto a status by its sentinel and writes it. Unknown errors become 500s.
func (s *Server) errorFor(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrMissingArgument):
		s.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		s.errorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrAlreadyExists):
		s.errorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, shared.ErrUpstreamUnavailable):
		s.serviceUnavailableResponse(w, r, err)
	default:
		s.serverErrorResponse(w, r, err)
	}
}
