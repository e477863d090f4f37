package review

import (
	"net/http"

	"gamehub/internal/apperr"
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

// createRequest accepts "game_id" for "game" and "reviewBody" for "body".
type createRequest struct {
	Game       string   `json:"game"`
	GameID     string   `json:"game_id"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	ReviewBody string   `json:"reviewBody"`
	Rating     *float64 `json:"rating"`
}

type patchRequest struct {
	Title      *string  `json:"title"`
	Body       *string  `json:"body"`
	ReviewBody *string  `json:"reviewBody"`
	Rating     *float64 `json:"rating"`
}

func (h *HTTPHandler) listParams(r *http.Request) (paging.Request, paging.Sort, error) {
	page, err := httpx.ParsePage(r, h.limits)
	if err != nil {
		return paging.Request{}, paging.Sort{}, err
	}
	q := r.URL.Query()
	sort, err := paging.ParseSort(q.Get("sort"), q.Get("sort_field"), q.Get("sort_order"), SortFields, DefaultSort)
	if err != nil {
		return paging.Request{}, paging.Sort{}, err
	}
	return page, sort, nil
}

// Index handles GET /v1/reviews. There is no global listing.
func (h *HTTPHandler) Index(w http.ResponseWriter, r *http.Request) {
	httpx.WriteError(w, r, ErrNoScope)
}

// ListByGame handles GET /v1/games/{id}/reviews
// @Summary List a game's reviews
// @Tags reviews
// @Produce json
// @Param id path string true "Game id"
// @Param user query string false "Only this author's review"
// @Param sort query string false "updated_at, created_at, title or rating; prefix - for descending" default(-updated_at)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/games/{id}/reviews [get]
func (h *HTTPHandler) ListByGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var userID string
	if raw := httpx.QueryString(r, "user"); raw != "" {
		if userID, err = httpx.ParseID(raw); err != nil {
			httpx.WriteError(w, r, apperr.InvalidArgument("Invalid user",
				apperr.FieldError{Field: "user", Message: "user must be a valid id"}))
			return
		}
	}

	page, sort, err := h.listParams(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	res, err := h.service.ListByGame(r.Context(), gameID, userID, page, sort)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONPage(w, r, res)
}

// ListByAuthor handles GET /v1/users/{id}/reviews
// @Summary List a user's reviews
// @Tags reviews
// @Produce json
// @Security Bearer
// @Param id path string true "User id"
// @Param sort query string false "updated_at, created_at, title or rating; prefix - for descending" default(-updated_at)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/users/{id}/reviews [get]
func (h *HTTPHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	page, sort, err := h.listParams(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	res, err := h.service.ListByAuthor(r.Context(), userID, page, sort)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONPage(w, r, res)
}

// Create handles POST /v1/reviews
// @Summary Review a game
// @Tags reviews
// @Accept json
// @Produce json
// @Security Bearer
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/reviews [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	in := CreateInput{
		GameID: req.Game,
		Title:  req.Title,
		Body:   req.Body,
		Rating: req.Rating,
	}
	if in.GameID == "" {
		in.GameID = req.GameID
	}
	if id, err := httpx.ParseID(in.GameID); err == nil {
		in.GameID = id
	}
	if in.Body == "" {
		in.Body = req.ReviewBody
	}

	rev, err := h.service.Create(r.Context(), httpx.IdentityFrom(r), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, rev)
}

// Get handles GET /v1/reviews/{id}
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param id path string true "Review id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/reviews/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	rev, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rev, nil)
}

// Update handles PATCH /v1/reviews/{id}
// @Summary Edit a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Review id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/reviews/{id} [patch]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var req patchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	p := Patch{Title: req.Title, Body: req.Body, Rating: req.Rating}
	if p.Body == nil {
		p.Body = req.ReviewBody
	}

	rev, err := h.service.Update(r.Context(), httpx.IdentityFrom(r), id, p)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rev, nil)
}

// Delete handles DELETE /v1/reviews/{id}
// @Summary Delete a review
// @Tags reviews
// @Security Bearer
// @Param id path string true "Review id"
// @Success 204
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/reviews/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), httpx.IdentityFrom(r), id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}
