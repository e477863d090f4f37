// Package paging holds the pagination envelope and sort options shared by
// every list-style operation.
package paging

import (
	"math"
	"slices"
	"strings"

	"gamehub/internal/apperr"
)

// Request selects one page of an ordered result set. Page is 1-based.
type Request struct {
	Page int
	Size int
}

// Validate rejects non-positive pages and sizes. Sizes are never clamped here.
func (r Request) Validate() error {
	if r.Page < 1 {
		return apperr.InvalidArgument("page must be a positive integer",
			apperr.FieldError{Field: "page", Message: "page must be a positive integer"})
	}
	if r.Size <= 0 {
		return apperr.InvalidArgument("page size must be a positive integer",
			apperr.FieldError{Field: "limit", Message: "limit must be a positive integer"})
	}
	return nil
}

// Offset is the number of rows skipped before the page starts. It saturates at
// math.MaxInt, which is past the end of any result set.
func (r Request) Offset() int {
	if r.Page <= 1 || r.Size <= 0 {
		return 0
	}
	if r.Page-1 > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return (r.Page - 1) * r.Size
}

// Result is the pagination envelope.
type Result[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewResult assembles the envelope for one page. Items is never nil so that an
// empty page encodes as [].
func NewResult[T any](items []T, req Request, total int) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items:      items,
		Page:       req.Page,
		PageSize:   req.Size,
		Total:      total,
		TotalPages: TotalPages(total, req.Size),
	}
}

// TotalPages is ceil(total/size); zero when size is not positive.
func TotalPages(total, size int) int {
	if size <= 0 {
		return 0
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}

// Window returns the [offset, offset+size) slice of an already ordered set.
// Pages past the end yield an empty slice.
func Window[T any](items []T, req Request) []T {
	start := req.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := len(items)
	if req.Size < end-start {
		end = start + req.Size
	}
	return items[start:end]
}

// Sort names a declared sort field and its direction.
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort accepts either the compact form (raw = "-updated_at") or a
// field/order pair (field = "title", order = "asc"). The field must be one of
// allowed; def is returned when nothing was requested.
func ParseSort(raw, field, order string, allowed []string, def Sort) (Sort, error) {
	var s Sort
	switch {
	case raw != "":
		s.Field = raw
		if strings.HasPrefix(raw, "-") {
			s.Field, s.Desc = raw[1:], true
		} else {
			s.Field = strings.TrimPrefix(raw, "+")
		}
	case field != "":
		s.Field = field
		switch strings.ToLower(order) {
		case "", "asc":
		case "desc":
			s.Desc = true
		default:
			return Sort{}, apperr.InvalidArgument("Invalid sort order",
				apperr.FieldError{Field: "sort_order", Message: "sort_order must be asc or desc"})
		}
	default:
		return def, nil
	}

	if !slices.Contains(allowed, s.Field) {
		return Sort{}, apperr.InvalidArgument("Invalid sort field",
			apperr.FieldError{Field: "sort", Message: "sort must be one of " + strings.Join(allowed, ", ")})
	}
	return s, nil
}
