package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/matzehuels/aberth/pkg/errors"
)

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPolynomial,
		errors.ErrCodeInvalidOptions, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeCanceled:
		return http.StatusRequestTimeout
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err as an ErrorResponse. Internal errors omit the
// message.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)

	body := ErrorResponse{Error: strings.ToLower(string(code))}
	if status != http.StatusInternalServerError {
		body.Message = errors.UserMessage(err)
	}
	writeJSON(w, status, body)
}
