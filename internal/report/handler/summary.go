package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/internal/report/service"
	"github.com/shiftpay/shiftpay-backend/pkg/errors"
	"github.com/shiftpay/shiftpay-backend/pkg/httputil"
	"github.com/shiftpay/shiftpay-backend/pkg/logger"
)

// xlsxContentType is the media type of the generated workbooks.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SummaryHandler handles the client summary endpoints
type SummaryHandler struct {
	summaries *service.SummaryService
	exports   *service.ExportService
	logger    *logger.Logger
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summaries *service.SummaryService, exports *service.ExportService, log *logger.Logger) *SummaryHandler {
	return &SummaryHandler{
		summaries: summaries,
		exports:   exports,
		logger:    log,
	}
}

// Summary builds the client summary rollup for the requested window
func (h *SummaryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var req domain.SummaryRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	summary, err := h.summaries.Summary(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.RawJSON(w, http.StatusOK, summary)
}

// Download builds the summary workbook and serves it as an attachment
func (h *SummaryHandler) Download(w http.ResponseWriter, r *http.Request) {
	var req domain.SummaryRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	path, err := h.exports.Export(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "client_summary.xlsx"))
	http.ServeFile(w, r, path)
}

// decodeOptionalJSON fills v from the request body, treating an empty
// body as an empty request.
func decodeOptionalJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || err == io.EOF {
		return nil
	}
	return errors.BadRequest("invalid JSON body")
}
