package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/database"
	"intranet-portal-backend/pkg/models"
	"intranet-portal-backend/pkg/taxonomy"
	"intranet-portal-backend/pkg/utils"
)

// CategoriesHandler 分类 CRUD
type CategoriesHandler struct {
	db database.DatabaseInterface
}

func NewCategoriesHandler(db database.DatabaseInterface) *CategoriesHandler {
	return &CategoriesHandler{db: db}
}

// GET /api/categories?name=&parentCategoryId=
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	parent, err := queryID(r, "parentCategoryId", "parent_category_id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	list, err := h.db.ListCategories(r.Context(), models.TaxonomyFilter{
		Name:             r.URL.Query().Get("name"),
		ParentCategoryID: parent,
	})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, list)
}

// POST /api/categories
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := utils.DecodeJSONObject(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	c := &models.Category{}
	if err := h.apply(r, c, body(payload), true); err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.db.CreateCategory(r.Context(), c); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, c)
}

// GET /api/categories/{id}
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathInt64(chi.URLParam(r, "id"), "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	c, err := h.db.GetCategory(r.Context(), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, c)
}

// PUT /api/categories/{id}
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	c, err := h.db.GetCategory(r.Context(), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.apply(r, c, body(payload), false); err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.db.UpdateCategory(r.Context(), c); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, c)
}

// DELETE /api/categories/{id}
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathInt64(chi.URLParam(r, "id"), "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	children, err := h.db.ListCategories(r.Context(), models.TaxonomyFilter{ParentCategoryID: &id})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if len(children) > 0 {
		utils.WriteError(w, &apperrors.ConflictError{Message: fmt.Sprintf("category %d still has %d subcategories", id, len(children))})
		return
	}
	if err := h.db.DeleteCategory(r.Context(), id); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"id": id, "deleted": true})
}

// apply copies present fields of b onto c; create requires a name.
func (h *CategoriesHandler) apply(r *http.Request, c *models.Category, b body, create bool) error {
	raw, err := b.str("name")
	if err != nil {
		return err
	}
	if raw != nil || create {
		if c.Name, err = requiredName(raw); err != nil {
			return err
		}
	}

	parent, present, err := b.id("parentCategoryId", "parent_category_id")
	if err != nil {
		return err
	}
	if present {
		if err := taxonomy.CheckCategoryParent(r.Context(), h.db, c.ID, parent); err != nil {
			return err
		}
		c.ParentCategoryID = parent
	}
	return nil
}
