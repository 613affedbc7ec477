package shared

import (
	"net/http"
	"strconv"
)

// Pagination is the limit/offset window parsed from a list endpoint's query
// string.
type Pagination struct {
	Limit  int
	Offset int
}

func queryInt(r *http.Request, key string) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParsePagination reads limit and offset from the query string. Missing or
// malformed values fall back to the defaults, and the limit is clamped to
// maxLimit so a client cannot request unbounded pages.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	page := Pagination{Limit: defaultLimit}
	if v, ok := queryInt(r, "limit"); ok && v > 0 {
		page.Limit = v
	}
	if v, ok := queryInt(r, "offset"); ok && v >= 0 {
		page.Offset = v
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}
