package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmstead/farmstead-backend/internal/inventory/repository"
	"github.com/farmstead/farmstead-backend/internal/inventory/service"
	"github.com/farmstead/farmstead-backend/pkg/httputil"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// MovementHandler handles stock movement endpoints. The ledger is append-only
// so there are no update or delete routes.
type MovementHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewMovementHandler creates a new movement handler
func NewMovementHandler(svc *service.InventoryService, log *logger.Logger) *MovementHandler {
	return &MovementHandler{
		service: svc,
		logger:  log,
	}
}

// CreateMovementRequest is the request body for recording a movement
type CreateMovementRequest struct {
	ItemID       string          `json:"item_id" validate:"required,uuid"`
	MovementType string          `json:"movement_type" validate:"required,oneof=stock_in stock_out adjustment"`
	Quantity     int             `json:"quantity" validate:"required"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	MovementDate *time.Time      `json:"movement_date,omitempty"`
	BatchID      *string         `json:"batch_id,omitempty"`
	LocationID   *string         `json:"location_id,omitempty"`
	Reason       *string         `json:"reason,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
}

// Create appends a movement to the ledger
func (h *MovementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMovementRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	in := service.RecordMovementInput{
		ItemID:       req.ItemID,
		MovementType: req.MovementType,
		Quantity:     req.Quantity,
		UnitCost:     req.UnitCost,
		BatchID:      req.BatchID,
		LocationID:   req.LocationID,
		Reason:       req.Reason,
		Notes:        req.Notes,
	}
	if req.MovementDate != nil {
		in.MovementDate = *req.MovementDate
	}
	if userID := httputil.GetUserID(r.Context()); userID != "" {
		userName := httputil.GetUserName(r.Context())
		in.PerformedBy = &userID
		in.PerformedByName = &userName
	}

	movement, err := h.service.RecordMovement(r.Context(), in)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, movement)
}

// List lists ledger entries with filtering and pagination
func (h *MovementHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 50
	}

	filter := repository.MovementFilter{
		ItemID:       q.Get("item_id"),
		MovementType: q.Get("movement_type"),
		Page:         page,
		PerPage:      perPage,
	}

	if from, err := time.Parse(time.RFC3339, q.Get("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, q.Get("to")); err == nil {
		filter.To = &to
	}

	movements, total, err := h.service.ListMovements(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	totalPages := int(total) / perPage
	if int(total)%perPage > 0 {
		totalPages++
	}

	httputil.JSONWithMeta(w, http.StatusOK, movements, &httputil.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// Summary summarizes ledger activity in an optional date range
func (h *MovementHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var from, to *time.Time
	if t, err := time.Parse(time.RFC3339, q.Get("from")); err == nil {
		from = &t
	}
	if t, err := time.Parse(time.RFC3339, q.Get("to")); err == nil {
		to = &t
	}

	summary, err := h.service.MovementSummary(r.Context(), from, to)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, summary)
}
