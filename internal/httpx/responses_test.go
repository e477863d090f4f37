package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gamehub/internal/apperr"
	"gamehub/internal/identity"
	"gamehub/internal/paging"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	JSONSuccess(w, r, map[string]string{"key": "value"}, map[string]any{"total": 10})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp SuccessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.EqualValues(t, 10, resp.Meta["total"])
}

func TestJSONPage_EmptyItemsEncodeAsArray(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	JSONPage(w, r, paging.NewResult[string](nil, paging.Request{Page: 3, Size: 2}, 3))

	var resp struct {
		Data []string       `json:"data"`
		Meta map[string]any `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotNil(t, resp.Data)
	assert.Len(t, resp.Data, 0)
	assert.EqualValues(t, 3, resp.Meta["page"])
	assert.EqualValues(t, 2, resp.Meta["limit"])
	assert.EqualValues(t, 3, resp.Meta["total"])
	assert.EqualValues(t, 2, resp.Meta["total_pages"])
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid", apperr.InvalidArgument("notes must be 400 characters or less"), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"unauthenticated", apperr.Unauthenticated(), http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"unauthorized", apperr.Unauthorized(), http.StatusForbidden, "UNAUTHORIZED"},
		{"not found", apperr.NotFound("Game not found"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", apperr.Conflict("Game already reviewed"), http.StatusConflict, "CONFLICT"},
		{"unavailable", apperr.Unavailable(errors.New("dial")), http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"foreign", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotContains(t, resp.Error.Message, "dial")
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Notes string `json:"notes"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"notes":"hi"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "hi", dst.Notes)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"notes":`))
	assert.True(t, apperr.IsKind(DecodeJSON(r, &dst), apperr.KindInvalidArgument))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.True(t, apperr.IsKind(DecodeJSON(r, &dst), apperr.KindInvalidArgument))
}

type staticProvider struct {
	id identity.Identity
}

func (p staticProvider) Current(*http.Request) (identity.Identity, bool) {
	return p.id, p.id.Present()
}

func TestIdentityMiddleware(t *testing.T) {
	var got identity.Identity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFrom(r)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("attaches identity", func(t *testing.T) {
		h := IdentityMiddleware(staticProvider{identity.Identity{ID: "u1", Username: "alice"}})(RequireIdentity(inner))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u1", got.ID)
	})

	t.Run("anonymous rejected by RequireIdentity", func(t *testing.T) {
		got = identity.Identity{}
		h := IdentityMiddleware(staticProvider{})(RequireIdentity(inner))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, got.Present())
	})
}
