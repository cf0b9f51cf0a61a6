// Package pagination centralizes page/limit parsing and offset math.
package pagination

import (
	"math"
	"strconv"
	"strings"

	"github.com/JohnnyRuss/academind-back/internal/apperror"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a validated 1-indexed page request
type Page struct {
	Number int `json:"page"`
	Limit  int `json:"limit"`
}

// New validates a page request. Pages start at 1.
func New(number, limit int) (Page, error) {
	if number < 1 {
		return Page{}, apperror.Validation("page must be 1 or greater, got %d", number)
	}
	if limit < 1 {
		return Page{}, apperror.Validation("limit must be 1 or greater, got %d", limit)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if int64(number-1) > math.MaxInt64/int64(limit) {
		return Page{}, apperror.Validation("page %d is out of range", number)
	}
	return Page{Number: number, Limit: limit}, nil
}

// Parse builds a Page from raw query values. Empty values fall back to page 1
// and DefaultLimit; anything present must be a number.
func Parse(rawPage, rawLimit string) (Page, error) {
	number, err := parseInt("page", rawPage, 1)
	if err != nil {
		return Page{}, err
	}
	limit, err := parseInt("limit", rawLimit, DefaultLimit)
	if err != nil {
		return Page{}, err
	}
	return New(number, limit)
}

// ParseLimit validates a bare limit for top-N queries.
func ParseLimit(raw string, def int) (int, error) {
	limit, err := parseInt("limit", raw, def)
	if err != nil {
		return 0, err
	}
	if limit < 1 {
		return 0, apperror.Validation("limit must be 1 or greater, got %d", limit)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit, nil
}

// Offset is the number of records to skip
func (p Page) Offset() int64 {
	return int64(p.Number-1) * int64(p.Limit)
}

func parseInt(name, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validation("%s must be a number", name)
	}
	return n, nil
}
