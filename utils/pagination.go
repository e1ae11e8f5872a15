package utils

import "strconv"

// Pagination carries page/limit query values and the derived skip offset.
type Pagination struct {
	Page  int
	Limit int
	Skip  int
}

// ParsePagination parses page and limit strings, falling back to page 1 and
// a limit of 10 on missing or malformed values.
func ParsePagination(pageStr, limitStr string) Pagination {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = 10
	}
	return Pagination{Page: page, Limit: limit, Skip: (page - 1) * limit}
}

// TotalPages returns the page count for a document total at this limit.
func (p Pagination) TotalPages(totalDocs int64) int64 {
	if totalDocs == 0 {
		return 0
	}
	return (totalDocs + int64(p.Limit) - 1) / int64(p.Limit)
}
