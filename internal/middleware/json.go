package middleware

import (
	"encoding/json"
	"net/http"

	"sync-workbench/internal/model"
	"sync-workbench/pkg/apierror"
)

// writeFailure emits the standard failure envelope with the status the
// error carries. Middleware rejections go through here so they are
// indistinguishable from handler-produced errors on the wire.
func writeFailure(w http.ResponseWriter, apiErr *apierror.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   apiErr,
	})
}
