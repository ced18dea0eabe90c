package http

import (
	"encoding/json"
	"net/http"

	"github.com/fwojciec/s1000d"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

var codes = map[string]int{
	s1000d.EINVALID:   http.StatusBadRequest,
	s1000d.ENOTFOUND:  http.StatusNotFound,
	s1000d.ETOOLARGE:  http.StatusRequestEntityTooLarge,
	s1000d.ERATELIMIT: http.StatusTooManyRequests,
	s1000d.EINTERNAL:  http.StatusInternalServerError,
}

// ErrorStatusCode maps an application error code to an HTTP status.
func ErrorStatusCode(code string) int {
	if status, ok := codes[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error writes err as a JSON error response. Internal errors are logged and
// reported with a generic message.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := s1000d.ErrorCode(err), s1000d.ErrorMessage(err)
	if code == s1000d.EINTERNAL {
		s.Logger.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, ErrorStatusCode(code), &ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
