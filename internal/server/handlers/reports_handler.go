package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/osvalr/cantina/internal/service/reporting"
)

// ReportsHandler serves the dashboard summary.
type ReportsHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

func NewReportsHandler(svc *reporting.Service, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{svc: svc, logger: logger}
}

func (h *ReportsHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), identity(c), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sales":     summary.Sales,
		"purchases": summary.Purchases,
		"expenses":  summary.Expenses,
		"net":       summary.Net,
	})
}
