package handlers

import (
	"net/http"
	"time"

	"intranet-portal-backend/pkg/config"
	"intranet-portal-backend/pkg/database"
	"intranet-portal-backend/pkg/utils"
)

// HealthHandler 健康检查
type HealthHandler struct {
	config *config.Config
	db     database.DatabaseInterface
}

func NewHealthHandler(cfg *config.Config, db database.DatabaseInterface) *HealthHandler {
	return &HealthHandler{config: cfg, db: db}
}

// GET / and GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	dbStatus := "healthy"
	status := http.StatusOK
	if err := h.db.HealthCheck(); err != nil {
		dbStatus = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	resp := map[string]interface{}{
		"service":     "intranet-portal-backend",
		"version":     config.Version,
		"environment": h.config.Environment,
		"database":    h.db.Driver(),
		"db_status":   dbStatus,
		"timestamp":   time.Now().Unix(),
	}
	if h.config.IsDevelopment() {
		resp["pool"] = database.GetConnectionStats()
	}
	utils.WriteJSONResponse(w, status, resp)
}
