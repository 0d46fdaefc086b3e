package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmstead/farmstead-backend/internal/farm/repository"
	"github.com/farmstead/farmstead-backend/internal/farm/service"
	"github.com/farmstead/farmstead-backend/pkg/httputil"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// CropHandler handles crop endpoints
type CropHandler struct {
	service *service.FarmService
	logger  *logger.Logger
}

// NewCropHandler creates a new crop handler
func NewCropHandler(svc *service.FarmService, log *logger.Logger) *CropHandler {
	return &CropHandler{
		service: svc,
		logger:  log,
	}
}

// List lists crops with optional farm_id and status filters
func (h *CropHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	crops, err := h.service.ListCrops(r.Context(), q.Get("farm_id"), q.Get("status"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, crops)
}

// Get gets a crop by ID
func (h *CropHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	crop, err := h.service.GetCrop(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, crop)
}

// Create creates a new crop
func (h *CropHandler) Create(w http.ResponseWriter, r *http.Request) {
	var crop repository.Crop
	if err := httputil.DecodeJSON(r, &crop); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateCrop(r.Context(), &crop); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, crop)
}

// Update updates a crop
func (h *CropHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var crop repository.Crop
	if err := httputil.DecodeJSON(r, &crop); err != nil {
		httputil.Error(w, err)
		return
	}

	crop.ID = id
	if err := h.service.UpdateCrop(r.Context(), &crop); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, crop)
}

// Delete deletes a crop
func (h *CropHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteCrop(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
