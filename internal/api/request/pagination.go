package request

import (
	"net/http"
	"strconv"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads page and limit query parameters, falling back to
// sane defaults on anything unparsable.
func ParsePagination(r *http.Request) Pagination {
	pg := Pagination{Page: 1, Limit: defaultLimit}

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pg.Page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxLimit {
			pg.Limit = n
		}
	}

	return pg
}
