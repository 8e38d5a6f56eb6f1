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

type RoleHandler struct {
	service *service.RoleService
}

func NewRoleHandler(service *service.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	role, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, role, nil)
}

func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Query(r.Context(), pageOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page.Results, page.Meta())
}

func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "role id is required", "id", http.StatusBadRequest))
		return
	}

	role, err := h.service.QueryByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, role, nil)
}

func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "role id is required", "id", http.StatusBadRequest))
		return
	}

	var payload model.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	role, err := h.service.UpdateByID(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, role, nil)
}

// Replace handles PUT: the role is overwritten when it exists and created
// under the given id's slot when it does not.
func (h *RoleHandler) Replace(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "role id is required", "id", http.StatusBadRequest))
		return
	}

	var payload model.CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	role, created, err := h.service.Replace(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeSuccess(w, status, role, nil)
}

func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "role id is required", "id", http.StatusBadRequest))
		return
	}

	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
