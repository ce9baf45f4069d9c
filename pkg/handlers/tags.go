package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"intranet-portal-backend/pkg/database"
	"intranet-portal-backend/pkg/models"
	"intranet-portal-backend/pkg/utils"
)

// TagsHandler 标签 CRUD；POST 是严格创建，重名返回 409
type TagsHandler struct {
	db database.DatabaseInterface
}

func NewTagsHandler(db database.DatabaseInterface) *TagsHandler {
	return &TagsHandler{db: db}
}

// GET /api/tags?name=
func (h *TagsHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.db.ListTags(r.Context(), models.TaxonomyFilter{Name: r.URL.Query().Get("name")})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, tags)
}

// POST /api/tags
func (h *TagsHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := utils.DecodeJSONObject(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	raw, err := body(payload).str("name")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	name, err := requiredName(raw)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	tag := &models.Tag{Name: name}
	if err := h.db.CreateTag(r.Context(), tag); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, tag)
}

// GET /api/tags/{id}
func (h *TagsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathInt64(chi.URLParam(r, "id"), "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	tag, err := h.db.GetTag(r.Context(), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, tag)
}

// PUT /api/tags/{id}
func (h *TagsHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	tag, err := h.db.GetTag(r.Context(), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	raw, err := body(payload).str("name")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if raw != nil {
		if tag.Name, err = requiredName(raw); err != nil {
			utils.WriteError(w, err)
			return
		}
	}
	if err := h.db.UpdateTag(r.Context(), tag); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, tag)
}

// DELETE /api/tags/{id}
func (h *TagsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathInt64(chi.URLParam(r, "id"), "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.db.DeleteTag(r.Context(), id); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"id": id, "deleted": true})
}
