package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// pageParams parses the limit/offset query parameters with sane defaults.
func pageParams(c echo.Context) (limit, offset int) {
	limit = defaultPageLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
