package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/osvalr/cantina/internal/domain/models"
	"github.com/osvalr/cantina/internal/service/orders"
	"github.com/osvalr/cantina/internal/service/reporting"
)

// OrdersHandler serves purchases, sales and expenses. The list endpoints
// double as range-total queries: a from or to query parameter switches the
// response to {"total": n} for the inclusive date range.
type OrdersHandler struct {
	svc     *orders.Service
	reports *reporting.Service
	logger  *zap.Logger
}

func NewOrdersHandler(svc *orders.Service, reports *reporting.Service, logger *zap.Logger) *OrdersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrdersHandler{svc: svc, reports: reports, logger: logger}
}

func rangeParams(c *gin.Context) (from, to string, ok bool) {
	from = c.Query("from")
	to = c.Query("to")
	return from, to, from != "" || to != ""
}

func (h *OrdersHandler) ListPurchases(c *gin.Context) {
	if from, to, ok := rangeParams(c); ok {
		total, err := h.reports.PurchasesTotal(c.Request.Context(), identity(c), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": total})
		return
	}

	purchases, err := h.svc.ListPurchases(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

func (h *OrdersHandler) CreatePurchase(c *gin.Context) {
	var req models.CreatePurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	purchase, err := h.svc.CreatePurchase(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "purchase recorded", "id": purchase.ID.Hex(), "total": purchase.Total})
}

func (h *OrdersHandler) UpdatePurchase(c *gin.Context) {
	var req models.UpdatePurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.svc.UpdatePurchase(c.Request.Context(), identity(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "purchase updated", "id": req.ID})
}

func (h *OrdersHandler) DeletePurchase(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeletePurchase(c.Request.Context(), identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "purchase deleted", "id": id})
}

func (h *OrdersHandler) ListSales(c *gin.Context) {
	if from, to, ok := rangeParams(c); ok {
		total, err := h.reports.SalesTotal(c.Request.Context(), identity(c), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": total})
		return
	}

	sales, err := h.svc.ListSales(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

func (h *OrdersHandler) CreateSale(c *gin.Context) {
	var req models.CreateSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := h.svc.CreateSale(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "sale recorded", "id": sale.ID.Hex(), "total": sale.Total})
}

func (h *OrdersHandler) UpdateSale(c *gin.Context) {
	var req models.UpdateSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.svc.UpdateSale(c.Request.Context(), identity(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sale updated", "id": req.ID})
}

func (h *OrdersHandler) DeleteSale(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteSale(c.Request.Context(), identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sale deleted", "id": id})
}

func (h *OrdersHandler) ListExpenses(c *gin.Context) {
	if from, to, ok := rangeParams(c); ok {
		total, err := h.reports.ExpensesTotal(c.Request.Context(), identity(c), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": total})
		return
	}

	expenses, err := h.svc.ListExpenses(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

func (h *OrdersHandler) CreateExpense(c *gin.Context) {
	var req models.ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := h.svc.CreateExpense(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "expense recorded", "id": expense.ID.Hex()})
}

func (h *OrdersHandler) UpdateExpense(c *gin.Context) {
	var req models.UpdateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.svc.UpdateExpense(c.Request.Context(), identity(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "expense updated", "id": req.ID})
}

func (h *OrdersHandler) DeleteExpense(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteExpense(c.Request.Context(), identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "expense deleted", "id": id})
}
