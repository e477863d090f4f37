package user

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

// List handles GET /v1/users
// @Summary List users
// @Tags users
// @Produce json
// @Security Bearer
// @Param search query string false "Username substring"
// @Param sort query string false "username or created_at; prefix - for descending" default(username)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/users [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
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

	res, err := h.service.List(r.Context(), httpx.IdentityFrom(r), Filter{Search: httpx.QueryString(r, "search", "q")}, page, sort)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONPage(w, r, res)
}

// Get handles GET /v1/users/{id}
// @Summary Get a user profile
// @Tags users
// @Produce json
// @Security Bearer
// @Param id path string true "User id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/users/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	u, err := h.service.Get(r.Context(), httpx.IdentityFrom(r), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, u, nil)
}

// Me handles GET /v1/me
// @Summary Get the current user
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/me [get]
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	acting := httpx.IdentityFrom(r)
	if !acting.Present() {
		httpx.WriteError(w, r, apperr.Unauthenticated())
		return
	}

	u, err := h.service.Get(r.Context(), acting, acting.ID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, u, nil)
}

// Update handles PATCH /v1/users/{id}
// @Summary Update username or bio
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "User id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/users/{id} [patch]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var p Patch
	if err := httpx.DecodeJSON(r, &p); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	u, err := h.service.Update(r.Context(), httpx.IdentityFrom(r), id, p)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, u, nil)
}

// Delete handles DELETE /v1/users/{id}
// @Summary Delete the caller's account
// @Tags users
// @Security Bearer
// @Param id path string true "User id"
// @Success 204
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/users/{id} [delete]
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
