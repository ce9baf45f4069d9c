package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"intranet-portal-backend/pkg/database"
	"intranet-portal-backend/pkg/models"
	"intranet-portal-backend/pkg/utils"
)

// PlacesHandler 地点 CRUD
type PlacesHandler struct {
	db database.DatabaseInterface
}

func NewPlacesHandler(db database.DatabaseInterface) *PlacesHandler {
	return &PlacesHandler{db: db}
}

// GET /api/places?name=
func (h *PlacesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.db.ListPlaces(r.Context(), models.TaxonomyFilter{Name: r.URL.Query().Get("name")})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, list)
}

// POST /api/places
func (h *PlacesHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := utils.DecodeJSONObject(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	p := &models.Place{}
	if err := applyPlace(p, body(payload), true); err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.db.CreatePlace(r.Context(), p); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, p)
}

// GET /api/places/{id}
func (h *PlacesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathInt64(chi.URLParam(r, "id"), "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	p, err := h.db.GetPlace(r.Context(), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, p)
}

// PUT /api/places/{id}
func (h *PlacesHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	p, err := h.db.GetPlace(r.Context(), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := applyPlace(p, body(payload), false); err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.db.UpdatePlace(r.Context(), p); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, p)
}

// DELETE /api/places/{id}
func (h *PlacesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathInt64(chi.URLParam(r, "id"), "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.db.DeletePlace(r.Context(), id); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"id": id, "deleted": true})
}

func applyPlace(p *models.Place, b body, create bool) error {
	raw, err := b.str("name")
	if err != nil {
		return err
	}
	if raw != nil || create {
		if p.Name, err = requiredName(raw); err != nil {
			return err
		}
	}
	if b.has("description") {
		if p.Description, err = b.str("description"); err != nil {
			return err
		}
	}
	if b.has("type") {
		if p.Type, err = b.str("type"); err != nil {
			return err
		}
		if p.Type != nil {
			t := strings.TrimSpace(*p.Type)
			p.Type = &t
		}
	}
	return nil
}
