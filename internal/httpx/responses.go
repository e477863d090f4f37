package httpx

import (
	"errors"
	"io"
	"net/http"

	"gamehub/internal/apperr"
	"gamehub/internal/logging"
	"gamehub/internal/paging"

	"github.com/goccy/go-json"
)

type SuccessResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   ErrorResponseBody `json:"error"`
	Meta    map[string]any    `json:"meta,omitempty"`
}

type ErrorResponseBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

func buildMeta(r *http.Request, custom map[string]any) map[string]any {
	requestID := RequestIDFrom(r)
	if requestID == "" && len(custom) == 0 {
		return nil
	}
	meta := make(map[string]any, len(custom)+1)
	if requestID != "" {
		meta["request_id"] = requestID
	}
	for k, v := range custom {
		meta[k] = v
	}
	return meta
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("encode response")
	}
}

// JSONSuccess writes a 200 envelope.
func JSONSuccess(w http.ResponseWriter, r *http.Request, data any, meta map[string]any) {
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: data, Meta: buildMeta(r, meta)})
}

// JSONCreated writes a 201 envelope.
func JSONCreated(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, http.StatusCreated, SuccessResponse{Success: true, Data: data, Meta: buildMeta(r, nil)})
}

// JSONPage writes one page of a list with the pagination meta.
func JSONPage[T any](w http.ResponseWriter, r *http.Request, res paging.Result[T]) {
	JSONSuccess(w, r, res.Items, map[string]any{
		"page":        res.Page,
		"limit":       res.PageSize,
		"page_size":   res.PageSize,
		"total":       res.Total,
		"total_pages": res.TotalPages,
	})
}

func JSONNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func JSONError(w http.ResponseWriter, r *http.Request, status int, code, message string, details []apperr.FieldError) {
	writeJSON(w, status, ErrorResponse{
		Success: false,
		Error: ErrorResponseBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: buildMeta(r, nil),
	})
}

// WriteError maps err onto its status and envelope. Internal and store
// failures are logged; their cause never reaches the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal(err)
	}

	status := apperr.HTTPStatus(appErr.Kind)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Str("kind", string(appErr.Kind)).Str("path", r.URL.Path).Msg("request failed")
	}
	JSONError(w, r, status, string(appErr.Kind), appErr.Message, appErr.Details)
}

// DecodeJSON reads the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return apperr.InvalidArgument("Request body is required")
	case errors.As(err, &tooLarge):
		return apperr.InvalidArgument("Request body too large")
	default:
		return apperr.InvalidArgument("Invalid request body")
	}
}
