package handler

import (
	"net/http"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/internal/report/service"
	"github.com/shiftpay/shiftpay-backend/pkg/httputil"
	"github.com/shiftpay/shiftpay-backend/pkg/logger"
)

// SearchHandler handles the employee detail search endpoints
type SearchHandler struct {
	search      *service.SearchService
	monthSearch *service.MonthSearchService
	logger      *logger.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search *service.SearchService, monthSearch *service.MonthSearchService, log *logger.Logger) *SearchHandler {
	return &SearchHandler{
		search:      search,
		monthSearch: monthSearch,
		logger:      log,
	}
}

// Search returns per-employee shift details for the resolved period
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req domain.SearchRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.search.Search(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.RawJSON(w, http.StatusOK, result)
}

// SearchByMonth returns raw shift records for an explicit month range
func (h *SearchHandler) SearchByMonth(w http.ResponseWriter, r *http.Request) {
	startMonth := r.URL.Query().Get("start_month")
	endMonth := r.URL.Query().Get("end_month")

	records, err := h.monthSearch.SearchByMonthRange(r.Context(), startMonth, endMonth)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.RawJSON(w, http.StatusOK, records)
}
