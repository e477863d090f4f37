// Package testutil holds fixtures and request helpers shared by tests.
package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"gamehub/internal/game"
	"gamehub/internal/identity"
	"gamehub/internal/user"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
)

const (
	AliceID   = "11111111-1111-4111-8111-111111111111"
	BobID     = "22222222-2222-4222-8222-222222222222"
	CelesteID = "aaaaaaaa-0000-4000-8000-000000000001"
	HollowID  = "aaaaaaaa-0000-4000-8000-000000000002"
	MissingID = "aaaaaaaa-0000-4000-8000-0000000000ff"
)

var (
	Alice = identity.Identity{ID: AliceID, Username: "alice"}
	Bob   = identity.Identity{ID: BobID, Username: "bob"}
)

// Users returns the fixture accounts matching Alice and Bob.
func Users() []user.User {
	return []user.User{
		{ID: AliceID, Username: "alice"},
		{ID: BobID, Username: "bob"},
	}
}

// Games returns two catalog entries with distinct genres and platforms.
func Games() []game.Game {
	return []game.Game{
		{
			ID:          CelesteID,
			Title:       "Celeste",
			Genres:      []string{"Platformer", "Indie"},
			Platforms:   []string{"PC", "Nintendo Switch"},
			ReleaseDate: time.Date(2018, time.January, 25, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          HollowID,
			Title:       "Hollow Knight",
			Genres:      []string{"Metroidvania", "Indie"},
			Platforms:   []string{"PC", "PlayStation 4"},
			ReleaseDate: time.Date(2017, time.February, 24, 0, 0, 0, 0, time.UTC),
		},
	}
}

// GenerateTestToken signs a token for id valid for an hour.
func GenerateTestToken(secret string, id identity.Identity) string {
	token, _ := identity.Sign(secret, id, time.Hour)
	return token
}

// GenerateExpiredToken signs a token that expired an hour ago.
func GenerateExpiredToken(secret string, id identity.Identity) string {
	c := identity.Claims{
		Sub:      id.ID,
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	return token
}

// NewRequest builds a request; a string body is sent as-is, anything else is
// JSON encoded.
func NewRequest(method, path string, body any) *http.Request {
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		payload, _ = json.Marshal(b)
	}
	if payload == nil {
		return httptest.NewRequest(method, path, nil)
	}
	r := httptest.NewRequest(method, path, bytes.NewReader(payload))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewRequestWithAuth is NewRequest with a bearer token.
func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse is a decoded response envelope.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	raw, _ := io.ReadAll(result.Body)
	var body map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	return RecordResponse{Code: result.StatusCode, Header: result.Header, Body: body}
}

// Data returns the envelope's data object, or nil.
func (r RecordResponse) Data() map[string]any {
	d, _ := r.Body["data"].(map[string]any)
	return d
}

// ErrorMessage returns error.message from a failure envelope.
func (r RecordResponse) ErrorMessage() string {
	e, _ := r.Body["error"].(map[string]any)
	msg, _ := e["message"].(string)
	return msg
}
