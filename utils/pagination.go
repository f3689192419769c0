package utils

import (
	"net/http"
	"strconv"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type PageQuery struct {
	Page   int
	Limit  int
	Offset int
}

type ListMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// PageParams reads the page/limit query params. Page is 1-based, limit is
// clamped to 100 and defaults to 20.
func PageParams(r *http.Request) PageQuery {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return PageQuery{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// RespondList wraps rows in the data/meta envelope used by every listing.
func RespondList(w http.ResponseWriter, rows interface{}, q PageQuery, total int) {
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"data": rows,
		"meta": ListMeta{Page: q.Page, Limit: q.Limit, Total: total},
	})
}
