package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmstead/farmstead-backend/internal/farm/repository"
	"github.com/farmstead/farmstead-backend/internal/farm/service"
	"github.com/farmstead/farmstead-backend/pkg/httputil"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// EquipmentHandler handles equipment endpoints
type EquipmentHandler struct {
	service *service.FarmService
	logger  *logger.Logger
}

// NewEquipmentHandler creates a new equipment handler
func NewEquipmentHandler(svc *service.FarmService, log *logger.Logger) *EquipmentHandler {
	return &EquipmentHandler{
		service: svc,
		logger:  log,
	}
}

// List lists equipment with an optional status filter
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	equipment, err := h.service.ListEquipment(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, equipment)
}

// Get gets an equipment record by ID
func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	eq, err := h.service.GetEquipment(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, eq)
}

// Create creates a new equipment record
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var eq repository.Equipment
	if err := httputil.DecodeJSON(r, &eq); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateEquipment(r.Context(), &eq); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, eq)
}

// Update updates an equipment record
func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var eq repository.Equipment
	if err := httputil.DecodeJSON(r, &eq); err != nil {
		httputil.Error(w, err)
		return
	}

	eq.ID = id
	if err := h.service.UpdateEquipment(r.Context(), &eq); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, eq)
}

// Delete deletes an equipment record
func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteEquipment(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
