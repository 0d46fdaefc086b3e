package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/farmstead/farmstead-backend/internal/inventory/service"
	"github.com/farmstead/farmstead-backend/pkg/httputil"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// AlertHandler handles inventory alert endpoints
type AlertHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(svc *service.InventoryService, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		service: svc,
		logger:  log,
	}
}

// List lists alerts with filtering
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var acknowledged *bool
	if v := q.Get("acknowledged"); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			acknowledged = &b
		}
	}

	alerts, total, err := h.service.ListAlerts(r.Context(), acknowledged, q.Get("alert_type"), page, perPage)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	totalPages := int(total) / perPage
	if int(total)%perPage > 0 {
		totalPages++
	}

	httputil.JSONWithMeta(w, http.StatusOK, alerts, &httputil.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// Acknowledge acknowledges an alert
func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := httputil.GetUserID(r.Context())

	if err := h.service.AcknowledgeAlert(r.Context(), id, userID); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
