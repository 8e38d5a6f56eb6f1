package model

import "sync-workbench/pkg/apierror"

type APIResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Data    any                `json:"data,omitempty"`
	Error   *apierror.APIError `json:"error,omitempty"`
	Meta    *Meta              `json:"meta,omitempty"`
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Page is the uniform shape returned by every paginated repository query.
type Page[T any] struct {
	Results      []T
	Page         int
	Limit        int
	TotalPages   int
	TotalResults int
}

func (p Page[T]) Meta() *Meta {
	return &Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.TotalResults,
		TotalPages: p.TotalPages,
	}
}
