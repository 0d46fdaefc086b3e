package handler

import (
	"net/http"

	"github.com/farmstead/farmstead-backend/internal/farm/service"
	"github.com/farmstead/farmstead-backend/pkg/httputil"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// DashboardHandler serves the farm overview dashboard
type DashboardHandler struct {
	service *service.FarmService
	logger  *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc *service.FarmService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: svc,
		logger:  log,
	}
}

// Overview returns aggregate farm statistics
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.GetDashboard(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, dashboard)
}
