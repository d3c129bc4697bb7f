package handler

import (
	"net/http"

	"github.com/shiftpay/shiftpay-backend/internal/report/service"
	"github.com/shiftpay/shiftpay-backend/pkg/httputil"
	"github.com/shiftpay/shiftpay-backend/pkg/logger"
)

// ShiftSummaryHandler handles the monthly shift summary endpoint
type ShiftSummaryHandler struct {
	summaries *service.ShiftSummaryService
	logger    *logger.Logger
}

// NewShiftSummaryHandler creates a new shift summary handler
func NewShiftSummaryHandler(summaries *service.ShiftSummaryService, log *logger.Logger) *ShiftSummaryHandler {
	return &ShiftSummaryHandler{
		summaries: summaries,
		logger:    log,
	}
}

// Summary returns manager and client aggregates for a single month
func (h *ShiftSummaryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.summaries.MonthlySummary(r.Context(), q.Get("duration_month"), q.Get("account_manager"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.RawJSON(w, http.StatusOK, result)
}
