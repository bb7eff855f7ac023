// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import "servitrack/internal/core/types"

func floatToMoney(v float64) types.Money {
	return types.NewMoney(v)
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// PageMeta describes one derived listing page.
type PageMeta struct {
	Page         int   `json:"page"`
	PageSize     int   `json:"pageSize"`
	TotalItems   int   `json:"totalItems"`
	TotalPages   int   `json:"totalPages"`
	VisiblePages []int `json:"visiblePages"`
}
