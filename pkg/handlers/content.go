package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/content"
	"intranet-portal-backend/pkg/middleware"
	"intranet-portal-backend/pkg/models"
	"intranet-portal-backend/pkg/utils"
)

// ContentHandler 内容接口
type ContentHandler struct {
	svc *content.Service
}

func NewContentHandler(svc *content.Service) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// POST /api/content
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := utils.DecodeJSONObject(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	view, err := h.svc.Create(r.Context(), payload, middleware.CallerID(r.Context()))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, view)
}

// GET /api/content?publishTo=&categoryId=&subspaceId=&placeId=&status=&search=&limit=&offset=
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := contentFilter(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	views, err := h.svc.List(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteListResponse(w, views, filter.Limit, filter.Offset, len(views))
}

// GET /api/content/{id}
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathInt64(chi.URLParam(r, "id"), "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	view, err := h.svc.Get(r.Context(), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, view)
}

// PUT|PATCH /api/content/{id}
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathInt64(chi.URLParam(r, "id"), "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	payload, err := utils.DecodeJSONObject(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	view, err := h.svc.Update(r.Context(), id, payload)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, view)
}

// DELETE /api/content/{id}
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathInt64(chi.URLParam(r, "id"), "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"id": id, "deleted": true})
}

func contentFilter(r *http.Request) (models.ContentFilter, error) {
	q := r.URL.Query()
	filter := models.ContentFilter{
		PublishTarget: strings.TrimSpace(firstQuery(q.Get("publishTo"), q.Get("publish_to"))),
		Search:        strings.TrimSpace(q.Get("search")),
	}

	var err error
	if filter.CategoryID, err = queryID(r, "categoryId", "category_id"); err != nil {
		return filter, err
	}
	if filter.SubspaceID, err = queryID(r, "subspaceId", "spaceId", "subspace_id"); err != nil {
		return filter, err
	}
	if filter.PlaceID, err = queryID(r, "placeId", "place_id"); err != nil {
		return filter, err
	}

	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status := models.ContentStatus(strings.ToLower(raw))
		if !status.Valid() {
			return filter, &apperrors.InvalidFieldError{Field: "status", Reason: "must be draft or published"}
		}
		filter.Status = status
	}

	if filter.Limit, err = utils.QueryInt(r, "limit", 0); err != nil {
		return filter, err
	}
	if filter.Offset, err = utils.QueryInt(r, "offset", 0); err != nil {
		return filter, err
	}
	filter.Limit = models.ClampContentLimit(filter.Limit)
	return filter, nil
}

func queryID(r *http.Request, keys ...string) (*int64, error) {
	for _, k := range keys {
		if r.URL.Query().Get(k) != "" {
			return utils.QueryInt64(r, k)
		}
	}
	return nil, nil
}

func firstQuery(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
