package server

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"trainingapi/internal/models"
	"trainingapi/internal/storage"
)

const maxPageSize = 100

// parsePagination reads page and limit from the query string. Page
// defaults to 1, limit to the per-resource default clamped to 100.
// Malformed numbers are reported as validation errors.
func parsePagination(c *gin.Context, defaultLimit int) (storage.Page, error) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return storage.Page{}, models.Validationf("Invalid parameter: page")
		}
		page = v
	}
	if page < 1 {
		page = 1
	}

	limit, err := parseLimit(c, defaultLimit, maxPageSize)
	if err != nil {
		return storage.Page{}, err
	}

	return storage.Page{Number: page, Limit: limit}, nil
}

// parseLimit reads the limit query parameter, clamped between 1 and max.
func parseLimit(c *gin.Context, def, max int) (int, error) {
	limit := def
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, models.Validationf("Invalid parameter: limit")
		}
		limit = v
	}
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit, nil
}

// paginationMeta builds the pagination block for list responses.
func paginationMeta(page storage.Page, total int64) gin.H {
	return gin.H{
		"page":  page.Number,
		"limit": page.Limit,
		"total": total,
		"pages": page.Pages(total),
	}
}
