package dto

import "github.com/yukikurage/project-management-api/internal/utils"

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginationResponse builds pagination metadata from the request params
func NewPaginationResponse(params utils.PaginationParams, total int64) PaginationResponse {
	return PaginationResponse{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: params.TotalPages(total),
	}
}
