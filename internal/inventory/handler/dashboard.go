package handler

import (
	"net/http"

	"github.com/farmstead/farmstead-backend/internal/inventory/service"
	"github.com/farmstead/farmstead-backend/pkg/httputil"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// DashboardHandler serves the inventory dashboard
type DashboardHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc *service.InventoryService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: svc,
		logger:  log,
	}
}

// Stats returns aggregate inventory statistics
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDashboardStats(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, stats)
}
