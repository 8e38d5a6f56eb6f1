package handler

import (
	"net/http"

	"sync-workbench/internal/model"
)

// ResourceHandler exposes the static resource registry so clients can
// discover what resource names permissions are granted against.
type ResourceHandler struct{}

func NewResourceHandler() *ResourceHandler {
	return &ResourceHandler{}
}

type resourceView struct {
	Mount   string   `json:"mount"`
	Name    string   `json:"name"`
	Actions []string `json:"actions"`
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	out := make([]resourceView, 0, len(model.ResourceRegistry))
	for _, entry := range model.ResourceRegistry {
		out = append(out, resourceView{
			Mount:   entry.Mount,
			Name:    entry.Name,
			Actions: model.PermissionActions,
		})
	}

	writeSuccess(w, http.StatusOK, out, nil)
}
