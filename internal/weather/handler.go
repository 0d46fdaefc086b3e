package weather

import (
	"net/http"

	"github.com/farmstead/farmstead-backend/pkg/httputil"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// Handler serves the weather endpoint
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new weather handler
func NewHandler(svc *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  log,
	}
}

// Get returns current conditions and the forecast for the farm coordinate
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Get(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}
