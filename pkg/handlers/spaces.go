package handlers

import (
	"net/http"
	"strings"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/database"
	"intranet-portal-backend/pkg/utils"
)

// SpacesHandler Space 矩阵只读接口
type SpacesHandler struct {
	db database.DatabaseInterface
}

func NewSpacesHandler(db database.DatabaseInterface) *SpacesHandler {
	return &SpacesHandler{db: db}
}

// GET /api/spaces
func (h *SpacesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.db.ListActiveSpaces(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, list)
}

// GET /api/spaces/business-keys
func (h *SpacesHandler) BusinessKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.db.ListSpaceBusinessKeys(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, keys)
}

// GET /api/spaces/languages
func (h *SpacesHandler) Languages(w http.ResponseWriter, r *http.Request) {
	langs, err := h.db.ListSpaceLanguages(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, langs)
}

// GET /api/spaces/resolve?businessKey=&language=
func (h *SpacesHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	businessKey := strings.TrimSpace(firstQuery(q.Get("businessKey"), q.Get("business_key")))
	language := strings.TrimSpace(q.Get("language"))
	if businessKey == "" {
		utils.WriteError(w, &apperrors.MissingRequiredFieldError{Field: "businessKey"})
		return
	}
	if language == "" {
		utils.WriteError(w, &apperrors.MissingRequiredFieldError{Field: "language"})
		return
	}

	sp, err := h.db.ResolveSpace(r.Context(), businessKey, language)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, sp)
}
