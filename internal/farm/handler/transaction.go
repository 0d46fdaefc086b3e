package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmstead/farmstead-backend/internal/farm/repository"
	"github.com/farmstead/farmstead-backend/internal/farm/service"
	"github.com/farmstead/farmstead-backend/pkg/httputil"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// TransactionHandler handles finance transaction endpoints
type TransactionHandler struct {
	service *service.FarmService
	logger  *logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(svc *service.FarmService, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: svc,
		logger:  log,
	}
}

// List lists transactions with optional farm_id and type filters
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	transactions, err := h.service.ListTransactions(r.Context(), q.Get("farm_id"), q.Get("type"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, transactions)
}

// Get gets a transaction by ID
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tx, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, tx)
}

// Create records a new transaction
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var tx repository.Transaction
	if err := httputil.DecodeJSON(r, &tx); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateTransaction(r.Context(), &tx); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, tx)
}

// Update updates a transaction
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var tx repository.Transaction
	if err := httputil.DecodeJSON(r, &tx); err != nil {
		httputil.Error(w, err)
		return
	}

	tx.ID = id
	if err := h.service.UpdateTransaction(r.Context(), &tx); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, tx)
}

// Delete deletes a transaction
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteTransaction(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// Summary returns a finance summary, optionally scoped to one farm
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetFinanceSummary(r.Context(), r.URL.Query().Get("farm_id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, summary)
}
