package game

import (
	"net/http"

	"gamehub/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	limits  httpx.PageLimits
}

func NewHTTPHandler(service *Service, limits httpx.PageLimits) *HTTPHandler {
	return &HTTPHandler{service: service, limits: limits}
}

// List handles GET /v1/games
// @Summary Search games
// @Description Search the catalog with exact/prefix/substring ranking, filters and pagination
// @Tags games
// @Produce json
// @Param search query string false "Title search (alias q)"
// @Param genre query string false "Genre substring filter"
// @Param platform query string false "Platform substring filter"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (alias page_size)" default(10)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/games [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := httpx.ParsePage(r, h.limits)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	plan, err := NewPlan(page,
		WithText(httpx.QueryString(r, "search", "q")),
		WithGenre(httpx.QueryString(r, "genre")),
		WithPlatform(httpx.QueryString(r, "platform")),
	)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	res, err := h.service.Search(r.Context(), plan)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONPage(w, r, res)
}

// Get handles GET /v1/games/{id}
// @Summary Get game
// @Tags games
// @Produce json
// @Param id path string true "Game id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/games/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	g, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, g, nil)
}
