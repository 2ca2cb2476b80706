package shared

import (
	"net/http"
	"strconv"
	"strings"
)

type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset from the query. Malformed or
// non-positive limits fall back to defaultLimit; maxLimit caps the result.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	page := Pagination{Limit: defaultLimit}
	if limit, ok, err := QueryInt(r, "limit"); ok && err == nil && limit > 0 {
		page.Limit = limit
	}
	if offset, ok, err := QueryInt(r, "offset"); ok && err == nil && offset > 0 {
		page.Offset = offset
	}
	if maxLimit > 0 {
		page.Limit = min(page.Limit, maxLimit)
	}
	return page
}

// QueryInt parses the named query parameter. present is false when the
// parameter is missing or blank.
func QueryInt(r *http.Request, name string) (value int, present bool, err error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	value, err = strconv.Atoi(raw)
	return value, true, err
}
