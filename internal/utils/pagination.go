package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/constants"
)

// PaginationParams selects one page of a listing. A zero Limit means
// unpaginated.
type PaginationParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages returns how many pages of Limit items hold total items.
func (p PaginationParams) TotalPages(total int64) int {
	if p.Limit < 1 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// GetPaginationParams reads ?page and ?limit. Missing, malformed or out of
// range values fall back to the first page and the default page size.
func GetPaginationParams(c *gin.Context) PaginationParams {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		params = PaginationParams{}
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < constants.MinPageSize || params.Limit > constants.MaxPageSize {
		params.Limit = constants.DefaultPageSize
	}
	return params
}
