package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"gamehub/internal/apperr"
	"gamehub/internal/paging"

	"github.com/google/uuid"
)

// PageLimits are the HTTP-side page size defaults. The planner and ledgers
// never clamp; only the boundary does.
type PageLimits struct {
	Default int `koanf:"default_limit"`
	Max     int `koanf:"max_limit"`
}

func DefaultPageLimits() PageLimits {
	return PageLimits{Default: 10, Max: 100}
}

// ParsePage reads page and limit (alias page_size). Missing values take the
// defaults; non-numeric or non-positive values are rejected.
func ParsePage(r *http.Request, limits PageLimits) (paging.Request, error) {
	q := r.URL.Query()

	page, err := positiveInt(q.Get("page"), 1, "page")
	if err != nil {
		return paging.Request{}, err
	}

	raw := q.Get("limit")
	if raw == "" {
		raw = q.Get("page_size")
	}
	size, err := positiveInt(raw, limits.Default, "limit")
	if err != nil {
		return paging.Request{}, err
	}
	if limits.Max > 0 && size > limits.Max {
		size = limits.Max
	}

	return paging.Request{Page: page, Size: size}, nil
}

func positiveInt(raw string, def int, field string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		msg := field + " must be a positive integer"
		return 0, apperr.InvalidArgument(msg, apperr.FieldError{Field: field, Message: msg})
	}
	return n, nil
}

// PathID returns the named path parameter as a canonical UUID string.
func PathID(r *http.Request, name string) (string, error) {
	id, err := ParseID(r.PathValue(name))
	if err != nil {
		return "", apperr.InvalidArgument("Invalid "+name,
			apperr.FieldError{Field: name, Message: name + " must be a valid id"})
	}
	return id, nil
}

// ParseID canonicalises a UUID.
func ParseID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// QueryString returns the first non-empty trimmed value among keys.
func QueryString(r *http.Request, keys ...string) string {
	q := r.URL.Query()
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return v
		}
	}
	return ""
}
