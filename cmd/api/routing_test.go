package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gamehub/internal/config"
	"gamehub/internal/game"
	"gamehub/internal/httpx"
	"gamehub/internal/identity"
	"gamehub/internal/library"
	"gamehub/internal/review"
	"gamehub/internal/testutil"
	"gamehub/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "routing-secret"
	aliceID    = testutil.AliceID
	bobID      = testutil.BobID
	celesteID  = testutil.CelesteID
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	tokens  map[string]string
}

func newTestServer(t *testing.T, ready Pinger) *testServer {
	t.Helper()

	games := game.NewMemoryRepo(testutil.Games()...)
	users := user.NewMemoryRepo(testutil.Users()...)
	cfg := &config.Config{
		Auth:     config.AuthConfig{JWTSecret: testSecret, CookieName: "token"},
		Security: config.SecurityConfig{CORSOrigins: []string{"*"}, MaxBodyBytes: 1 << 20},
		Paging:   httpx.DefaultPageLimits(),
	}
	lib := library.NewMemoryRepo(games, users)
	revs := review.NewMemoryRepo(games, users)
	users.OnDelete(lib.DeleteUser, revs.DeleteUser)
	repos := repositories{
		games:     games,
		users:     users,
		library:   lib,
		reviews:   revs,
		readiness: ready,
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	tokens := map[string]string{
		"alice":   testutil.GenerateTestToken(testSecret, testutil.Alice),
		"bob":     testutil.GenerateTestToken(testSecret, testutil.Bob),
		"expired": testutil.GenerateExpiredToken(testSecret, testutil.Alice),
		"forged":  testutil.GenerateTestToken("other-secret", testutil.Alice),
	}
	return &testServer{t: t, handler: newRouter(ctx, cfg, repos), tokens: tokens}
}

func (s *testServer) do(method, target, body, as string) *httptest.ResponseRecorder {
	s.t.Helper()
	var payload any
	if body != "" {
		payload = body
	}
	r := testutil.NewRequestWithAuth(method, target, payload, s.tokens[as])
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, r)
	return w
}

func dataID(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	id, _ := testutil.RecordHTTPResponse(w).Data()["id"].(string)
	return id
}

func alwaysReady(context.Context) error { return nil }

func TestOpsEndpoints(t *testing.T) {
	s := newTestServer(t, pingFunc(alwaysReady))

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/readyz", "", "").Code)

	w := s.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")

	down := newTestServer(t, pingFunc(func(context.Context) error { return errors.New("refused") }))
	assert.Equal(t, http.StatusServiceUnavailable, down.do(http.MethodGet, "/readyz", "", "").Code)
}

func TestV1Routing(t *testing.T) {
	s := newTestServer(t, pingFunc(alwaysReady))

	t.Run("v1 prefix required", func(t *testing.T) {
		w := s.do(http.MethodGet, "/games", "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("wrong method", func(t *testing.T) {
		assert.Equal(t, http.StatusMethodNotAllowed, s.do(http.MethodPut, "/v1/games", "", "").Code)
	})

	t.Run("catalog is public", func(t *testing.T) {
		w := s.do(http.MethodGet, "/v1/games?search=cel", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"title":"Celeste"`)

		w = s.do(http.MethodGet, "/v1/games/"+celesteID, "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), celesteID)
	})

	t.Run("session routes reject anonymous callers", func(t *testing.T) {
		for _, target := range []string{"/v1/me", "/v1/users", "/v1/users/" + aliceID + "/games", "/v1/users/" + aliceID + "/reviews"} {
			w := s.do(http.MethodGet, target, "", "")
			assert.Equal(t, http.StatusUnauthorized, w.Code, target)
		}
		w := s.do(http.MethodPost, "/v1/reviews", `{"game":"`+celesteID+`","rating":5,"title":"t","body":"b"}`, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad tokens are anonymous", func(t *testing.T) {
		s.tokens["mallory"] = "not-a-jwt"
		for _, as := range []string{"mallory", "expired", "forged"} {
			res := testutil.RecordHTTPResponse(s.do(http.MethodGet, "/v1/me", "", as))
			assert.Equal(t, http.StatusUnauthorized, res.Code, as)
			assert.Equal(t, "Unauthenticated", res.ErrorMessage(), as)
		}
	})

	t.Run("owner gate uses the canonical subject", func(t *testing.T) {
		s.tokens["ALICE"] = testutil.GenerateTestToken(testSecret, identity.Identity{ID: strings.ToUpper(aliceID), Username: "alice"})
		w := s.do(http.MethodPatch, "/v1/users/"+aliceID, `{"bio":"Upper"}`, "ALICE")
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("me", func(t *testing.T) {
		w := s.do(http.MethodGet, "/v1/me", "", "alice")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"alice"`)
	})
}

func TestLibraryFlow(t *testing.T) {
	s := newTestServer(t, pingFunc(alwaysReady))
	base := "/v1/users/" + aliceID + "/games"
	body := `{"game":"` + celesteID + `","status":"` + library.StatusOwned + `"}`

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, base, body, "bob").Code)
	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, base, body, "alice").Code)

	res := testutil.RecordHTTPResponse(s.do(http.MethodPost, base, body, "alice"))
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, "Game already added to user profile", res.ErrorMessage())

	w := s.do(http.MethodGet, base+"?status=Owned", "", "bob")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = s.do(http.MethodPatch, base+"/"+celesteID, `{"notes":"100% done"}`, "alice")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "100% done")

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, base+"/"+celesteID, "", "bob").Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, base+"/"+celesteID, "", "alice").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, base+"/"+celesteID, "", "alice").Code)
}

func TestReviewFlow(t *testing.T) {
	s := newTestServer(t, pingFunc(alwaysReady))
	body := `{"game":"` + celesteID + `","rating":9,"title":"Excellent","reviewBody":"Loved it"}`

	w := s.do(http.MethodPost, "/v1/reviews", body, "alice")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := dataID(t, w)
	require.NotEmpty(t, id)

	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/v1/reviews", body, "alice").Code)

	w = s.do(http.MethodGet, "/v1/games/"+celesteID+"/reviews", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/v1/reviews", "", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/v1/reviews/"+id, "", "").Code)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, "/v1/reviews/"+id, `{"title":"Hijack"}`, "bob").Code)
	w = s.do(http.MethodPatch, "/v1/reviews/"+id, `{"title":"Still great"}`, "alice")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Still great"`)

	w = s.do(http.MethodGet, "/v1/users/"+aliceID+"/reviews", "", "bob")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Still great")

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/v1/reviews/"+id, "", "alice").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/v1/reviews/"+id, "", "").Code)
}

func TestUserRoutes(t *testing.T) {
	s := newTestServer(t, pingFunc(alwaysReady))

	w := s.do(http.MethodGet, "/v1/users?search=bo", "", "alice")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"bob"`)
	assert.NotContains(t, w.Body.String(), `"username":"alice"`)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, "/v1/users/"+aliceID, `{"bio":"hi"}`, "bob").Code)

	w = s.do(http.MethodPatch, "/v1/users/"+aliceID, `{"bio":"Speedrunner"}`, "alice")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Speedrunner")

	reviewBody := `{"game":"` + celesteID + `","rating":6,"title":"Fine","body":"Short but fine"}`
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/v1/reviews", reviewBody, "bob").Code)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/v1/users/"+bobID+"/games", `{"game":"`+celesteID+`"}`, "bob").Code)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/v1/users/"+bobID, "", "bob").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/v1/users/"+bobID, "", "alice").Code)

	t.Run("deleting a user removes their reviews and library", func(t *testing.T) {
		w := s.do(http.MethodGet, "/v1/games/"+celesteID+"/reviews", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":0`)

		w = s.do(http.MethodGet, "/v1/users/"+bobID+"/games", "", "alice")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":0`)
	})
}
