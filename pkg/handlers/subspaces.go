package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/middleware"
	"intranet-portal-backend/pkg/models"
	"intranet-portal-backend/pkg/taxonomy"
	"intranet-portal-backend/pkg/utils"
)

// SubspacesHandler 子空间树接口；每次列表前都会确保默认根节点存在
type SubspacesHandler struct {
	svc *taxonomy.SubspaceService
}

func NewSubspacesHandler(svc *taxonomy.SubspaceService) *SubspacesHandler {
	return &SubspacesHandler{svc: svc}
}

// GET /api/subspaces?parentSubspaceId=<id>|null&name=&isPublished=&visibility=
func (h *SubspacesHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := subspaceFilter(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	list, err := h.svc.FindAll(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, list)
}

// POST /api/subspaces
func (h *SubspacesHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := utils.DecodeJSONObject(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	in, err := subspaceInput(body(payload))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if in.CreatedBy == nil {
		if caller := middleware.CallerID(r.Context()); caller > 0 {
			in.CreatedBy = &caller
		}
	}
	sp, err := h.svc.Create(r.Context(), in)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, sp)
}

// GET /api/subspaces/{id}
func (h *SubspacesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathInt64(chi.URLParam(r, "id"), "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	sp, err := h.svc.Get(r.Context(), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, sp)
}

// PUT /api/subspaces/{id}
func (h *SubspacesHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	in, err := subspaceInput(body(payload))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	sp, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, sp)
}

// DELETE /api/subspaces/{id}
func (h *SubspacesHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func subspaceFilter(r *http.Request) (models.SubspaceFilter, error) {
	q := r.URL.Query()
	filter := models.SubspaceFilter{
		Name:       strings.TrimSpace(q.Get("name")),
		Visibility: strings.TrimSpace(q.Get("visibility")),
	}

	for _, key := range []string{"parentSubspaceId", "parent_subspace_id"} {
		if _, ok := q[key]; !ok {
			continue
		}
		filter.Parent.Set = true
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" || strings.EqualFold(raw, "null") {
			break
		}
		id, err := utils.PathInt64(raw, key)
		if err != nil {
			return filter, err
		}
		filter.Parent.ID = &id
		break
	}

	if raw := strings.TrimSpace(q.Get("isPublished")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, &apperrors.InvalidFieldError{Field: "isPublished", Reason: "must be true or false"}
		}
		filter.IsPublished = &v
	}
	return filter, nil
}

func subspaceInput(b body) (taxonomy.SubspaceInput, error) {
	var (
		in  taxonomy.SubspaceInput
		err error
	)
	if in.Name, err = b.str("name"); err != nil {
		return in, err
	}
	parent, present, err := b.id("parentSubspaceId", "parent_subspace_id", "parentId")
	if err != nil {
		return in, err
	}
	// 创建时缺省与 null 都挂到默认根节点；更新时 null 会被拒绝
	in.Parent = models.ParentFilter{Set: present, ID: parent}
	if in.IsPublished, err = b.boolean("isPublished", "is_published"); err != nil {
		return in, err
	}
	if in.Visibility, err = b.str("visibility"); err != nil {
		return in, err
	}
	if in.Description, err = b.str("description"); err != nil {
		return in, err
	}
	createdBy, _, err := b.id("createdBy", "created_by")
	if err != nil {
		return in, err
	}
	in.CreatedBy = createdBy
	return in, nil
}
