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

type RolePermissionHandler struct {
	service *service.RolePermissionService
}

func NewRolePermissionHandler(service *service.RolePermissionService) *RolePermissionHandler {
	return &RolePermissionHandler{service: service}
}

func (h *RolePermissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateRolePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	assignment, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, assignment, nil)
}

// List supports an optional role_id filter alongside the usual paging
// parameters.
func (h *RolePermissionHandler) List(w http.ResponseWriter, r *http.Request) {
	roleID := r.URL.Query().Get("role_id")

	page, err := h.service.Query(r.Context(), roleID, pageOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page.Results, page.Meta())
}

func (h *RolePermissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "role-permission id is required", "id", http.StatusBadRequest))
		return
	}

	assignment, err := h.service.QueryByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, assignment, nil)
}

func (h *RolePermissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "role-permission id is required", "id", http.StatusBadRequest))
		return
	}

	var payload model.UpdateRolePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	assignment, err := h.service.UpdateByID(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, assignment, nil)
}

func (h *RolePermissionHandler) Replace(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "role-permission id is required", "id", http.StatusBadRequest))
		return
	}

	var payload model.CreateRolePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	assignment, created, err := h.service.Replace(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeSuccess(w, status, assignment, nil)
}

func (h *RolePermissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "role-permission id is required", "id", http.StatusBadRequest))
		return
	}

	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
