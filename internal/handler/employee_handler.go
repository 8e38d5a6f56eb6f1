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

type EmployeeHandler struct {
	service *service.EmployeeService
}

func NewEmployeeHandler(service *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	employee, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, employee, nil)
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Query(r.Context(), pageOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page.Results, page.Meta())
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "employee id is required", "id", http.StatusBadRequest))
		return
	}

	employee, err := h.service.QueryByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, employee, nil)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "employee id is required", "id", http.StatusBadRequest))
		return
	}

	var payload model.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	employee, err := h.service.UpdateByID(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, employee, nil)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", "employee id is required", "id", http.StatusBadRequest))
		return
	}

	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
