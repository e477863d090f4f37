package library

import (
	"net/http"

	"gamehub/internal/httpx"
	"gamehub/internal/paging"
)

type HTTPHandler struct {
	service *Service
	limits  httpx.PageLimits
}

func NewHTTPHandler(service *Service, limits httpx.PageLimits) *HTTPHandler {
	return &HTTPHandler{service: service, limits: limits}
}

// addRequest accepts "game" as an alias of "game_id".
type addRequest struct {
	GameID string `json:"game_id"`
	Game   string `json:"game"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// List handles GET /v1/users/{id}/games
// @Summary List a user's library
// @Tags library
// @Produce json
// @Param id path string true "User id"
// @Param status query string false "Owned, Wishlisted or Not Owned"
// @Param search query string false "Game title substring"
// @Param sort query string false "updated_at, created_at, status or title; prefix - for descending" default(-updated_at)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/users/{id}/games [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	page, err := httpx.ParsePage(r, h.limits)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	q := r.URL.Query()
	sort, err := paging.ParseSort(q.Get("sort"), q.Get("sort_field"), q.Get("sort_order"), SortFields, DefaultSort)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	filter := Filter{
		Status: httpx.QueryString(r, "status"),
		Search: httpx.QueryString(r, "search", "q"),
	}

	res, err := h.service.List(r.Context(), userID, filter, page, sort)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONPage(w, r, res)
}

// Add handles POST /v1/users/{id}/games
// @Summary Add a game to the caller's library
// @Tags library
// @Accept json
// @Produce json
// @Param id path string true "User id"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/users/{id}/games [post]
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var req addRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if req.GameID == "" {
		req.GameID = req.Game
	}
	if id, err := httpx.ParseID(req.GameID); err == nil {
		req.GameID = id
	}

	rec, err := h.service.Add(r.Context(), httpx.IdentityFrom(r), userID, AddInput{
		GameID: req.GameID,
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, rec)
}

// Get handles GET /v1/users/{id}/games/{gameId}
// @Summary Get one library record
// @Tags library
// @Produce json
// @Param id path string true "User id"
// @Param gameId path string true "Game id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/users/{id}/games/{gameId} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, gameID, ok := pathIDs(w, r)
	if !ok {
		return
	}

	rec, err := h.service.Get(r.Context(), userID, gameID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rec, nil)
}

// Update handles PATCH /v1/users/{id}/games/{gameId}
// @Summary Update status or notes
// @Tags library
// @Accept json
// @Produce json
// @Param id path string true "User id"
// @Param gameId path string true "Game id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/users/{id}/games/{gameId} [patch]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, gameID, ok := pathIDs(w, r)
	if !ok {
		return
	}

	var p Patch
	if err := httpx.DecodeJSON(r, &p); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	rec, err := h.service.Update(r.Context(), httpx.IdentityFrom(r), userID, gameID, p)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rec, nil)
}

// Remove handles DELETE /v1/users/{id}/games/{gameId}
// @Summary Remove a game from the caller's library
// @Tags library
// @Param id path string true "User id"
// @Param gameId path string true "Game id"
// @Success 204
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/users/{id}/games/{gameId} [delete]
func (h *HTTPHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, gameID, ok := pathIDs(w, r)
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), httpx.IdentityFrom(r), userID, gameID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

func pathIDs(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return "", "", false
	}
	gameID, err := httpx.PathID(r, "gameId")
	if err != nil {
		httpx.WriteError(w, r, err)
		return "", "", false
	}
	return userID, gameID, true
}
