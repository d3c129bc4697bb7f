package handler

import (
	"net/http"

	"github.com/shiftpay/shiftpay-backend/internal/report/catalog"
	"github.com/shiftpay/shiftpay-backend/pkg/httputil"
	"github.com/shiftpay/shiftpay-backend/pkg/logger"
)

// ClientHandler handles the client catalog endpoint
type ClientHandler struct {
	logger *logger.Logger
}

// NewClientHandler creates a new client handler
func NewClientHandler(log *logger.Logger) *ClientHandler {
	return &ClientHandler{logger: log}
}

// List returns the supported client companies with their chart colors
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	httputil.RawJSON(w, http.StatusOK, catalog.Entries())
}
