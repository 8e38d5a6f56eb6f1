package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"sync-workbench/internal/model"
	"sync-workbench/pkg/apierror"
)

// Timeout cuts off handlers that run past the deadline with a 503 in the
// standard failure envelope. The body is rendered once at construction;
// http.TimeoutHandler writes it verbatim.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	body, err := json.Marshal(model.APIResponse{
		Success: false,
		Error:   apierror.New("REQUEST_TIMEOUT", "Request timed out", "", http.StatusServiceUnavailable),
	})
	if err != nil {
		body = []byte(`{"success":false,"error":{"code":"REQUEST_TIMEOUT","message":"Request timed out"}}`)
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(body))
	}
}
