package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultLimit       = 10
	DefaultReviewLimit = 5
	MaxLimit           = 100

	// MaxPage keeps (page-1)*MaxLimit inside an int.
	MaxPage = math.MaxInt / MaxLimit
)

// Parse reads page/limit query values. Missing, non-numeric or zero values
// fall back to page 1 and defLimit; negative values clamp to 1.
func Parse(pageRaw, limitRaw string, defLimit int) (page, limit int) {
	page = parseOr(pageRaw, 1)
	limit = parseOr(limitRaw, defLimit)
	return Clamp(page, limit, defLimit)
}

// Clamp applies the same bounds to already-parsed values.
func Clamp(page, limit, defLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit == 0 {
		limit = defLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset is the row offset of page; it saturates instead of overflowing.
func Offset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// TotalPages is ceil(total / limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func parseOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n == 0 {
		return def
	}
	return n
}
