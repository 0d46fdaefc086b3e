package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmstead/farmstead-backend/internal/inventory/repository"
	"github.com/farmstead/farmstead-backend/internal/inventory/service"
	"github.com/farmstead/farmstead-backend/pkg/httputil"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// BatchHandler handles batch endpoints
type BatchHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(svc *service.InventoryService, log *logger.Logger) *BatchHandler {
	return &BatchHandler{
		service: svc,
		logger:  log,
	}
}

// ListByItem lists batches for an item
func (h *BatchHandler) ListByItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	batches, err := h.service.ListBatchesByItem(r.Context(), itemID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, batches)
}

// Get gets a batch by ID
func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	batch, err := h.service.GetBatch(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, batch)
}

// Create creates a new batch
func (h *BatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var batch repository.InventoryBatch
	if err := httputil.DecodeJSON(r, &batch); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateBatch(r.Context(), &batch); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, batch)
}

// Update updates a batch
func (h *BatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var batch repository.InventoryBatch
	if err := httputil.DecodeJSON(r, &batch); err != nil {
		httputil.Error(w, err)
		return
	}

	batch.ID = id
	if err := h.service.UpdateBatch(r.Context(), &batch); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, batch)
}

// Delete deletes a batch
func (h *BatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteBatch(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// ConsumeRequest is the request body for consuming from a batch
type ConsumeRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// Consume consumes quantity from a batch, recording a stock_out movement
func (h *BatchHandler) Consume(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ConsumeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	var performedBy, performedByName *string
	if userID := httputil.GetUserID(r.Context()); userID != "" {
		userName := httputil.GetUserName(r.Context())
		performedBy = &userID
		performedByName = &userName
	}

	batch, err := h.service.ConsumeBatch(r.Context(), id, req.Quantity, performedBy, performedByName)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, batch)
}

// Summary summarizes all batches
func (h *BatchHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.BatchSummary(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, summary)
}
