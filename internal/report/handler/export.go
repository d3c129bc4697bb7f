package handler

import (
	"fmt"
	"net/http"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/internal/report/service"
	"github.com/shiftpay/shiftpay-backend/pkg/httputil"
	"github.com/shiftpay/shiftpay-backend/pkg/logger"
)

// ExportHandler handles the flat allowance export endpoint
type ExportHandler struct {
	exports *service.FlatExportService
	logger  *logger.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exports *service.FlatExportService, log *logger.Logger) *ExportHandler {
	return &ExportHandler{
		exports: exports,
		logger:  log,
	}
}

// Download builds the flat allowance workbook and serves it as an attachment
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.FlatExportFilter{
		EmpID:          q.Get("emp_id"),
		AccountManager: q.Get("account_manager"),
		Department:     q.Get("department"),
		Client:         q.Get("client"),
		StartMonth:     q.Get("start_month"),
		EndMonth:       q.Get("end_month"),
	}

	data, err := h.exports.Export(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "shift_data.xlsx"))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))

	if _, err := w.Write(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to write export response")
	}
}
