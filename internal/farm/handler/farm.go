package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmstead/farmstead-backend/internal/farm/repository"
	"github.com/farmstead/farmstead-backend/internal/farm/service"
	"github.com/farmstead/farmstead-backend/pkg/httputil"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// FarmHandler handles farm endpoints
type FarmHandler struct {
	service *service.FarmService
	logger  *logger.Logger
}

// NewFarmHandler creates a new farm handler
func NewFarmHandler(svc *service.FarmService, log *logger.Logger) *FarmHandler {
	return &FarmHandler{
		service: svc,
		logger:  log,
	}
}

// List lists all farms
func (h *FarmHandler) List(w http.ResponseWriter, r *http.Request) {
	farms, err := h.service.ListFarms(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, farms)
}

// Get gets a farm by ID
func (h *FarmHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	farm, err := h.service.GetFarm(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, farm)
}

// Create creates a new farm
func (h *FarmHandler) Create(w http.ResponseWriter, r *http.Request) {
	var farm repository.Farm
	if err := httputil.DecodeJSON(r, &farm); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateFarm(r.Context(), &farm); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, farm)
}

// Update updates a farm
func (h *FarmHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var farm repository.Farm
	if err := httputil.DecodeJSON(r, &farm); err != nil {
		httputil.Error(w, err)
		return
	}

	farm.ID = id
	if err := h.service.UpdateFarm(r.Context(), &farm); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, farm)
}

// Delete deletes a farm
func (h *FarmHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteFarm(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
