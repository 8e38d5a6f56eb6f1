package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sync-workbench/internal/model"
	"sync-workbench/internal/service"
	"sync-workbench/internal/validate"
	"sync-workbench/pkg/apierror"
)

type PermissionHandler struct {
	service *service.PermissionService
}

func NewPermissionHandler(service *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{service: service}
}

func (h *PermissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreatePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	permission, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, permission, nil)
}

func (h *PermissionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Query(r.Context(), pageOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page.Results, page.Meta())
}

func (h *PermissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "permission id is required", "id", http.StatusBadRequest))
		return
	}

	permission, err := h.service.QueryByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, permission, nil)
}

func (h *PermissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "permission id is required", "id", http.StatusBadRequest))
		return
	}

	var payload model.UpdatePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	permission, err := h.service.UpdateByID(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, permission, nil)
}

func (h *PermissionHandler) Replace(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "permission id is required", "id", http.StatusBadRequest))
		return
	}

	var payload model.CreatePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	permission, created, err := h.service.Replace(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeSuccess(w, status, permission, nil)
}

func (h *PermissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "permission id is required", "id", http.StatusBadRequest))
		return
	}

	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddAction grants one more action on the permission. Adding an action the
// permission already has is a no-op, not an error.
func (h *PermissionHandler) AddAction(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "permission id is required", "id", http.StatusBadRequest))
		return
	}

	var payload model.PermissionActionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	permission, err := h.service.AddAction(r.Context(), id, payload.Action)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, permission, nil)
}

func (h *PermissionHandler) RemoveAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	action := chi.URLParam(r, "action")
	if id == "" || action == "" {
		writeError(w, apierror.New("BAD_REQUEST", "permission id and action are required", "", http.StatusBadRequest))
		return
	}

	permission, err := h.service.RemoveAction(r.Context(), id, action)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, permission, nil)
}
