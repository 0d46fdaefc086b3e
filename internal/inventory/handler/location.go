package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmstead/farmstead-backend/internal/inventory/repository"
	"github.com/farmstead/farmstead-backend/internal/inventory/service"
	"github.com/farmstead/farmstead-backend/pkg/httputil"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// LocationHandler handles storage location endpoints
type LocationHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(svc *service.InventoryService, log *logger.Logger) *LocationHandler {
	return &LocationHandler{
		service: svc,
		logger:  log,
	}
}

// List lists storage locations
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.service.ListLocations(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, locations)
}

// Get gets a location by ID
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	location, err := h.service.GetLocation(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, location)
}

// Create creates a new location
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var location repository.StorageLocation
	if err := httputil.DecodeJSON(r, &location); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateLocation(r.Context(), &location); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, location)
}

// Update updates a location
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var location repository.StorageLocation
	if err := httputil.DecodeJSON(r, &location); err != nil {
		httputil.Error(w, err)
		return
	}

	location.ID = id
	if err := h.service.UpdateLocation(r.Context(), &location); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, location)
}

// Delete deletes a location
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteLocation(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
