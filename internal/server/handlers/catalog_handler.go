package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/osvalr/cantina/internal/domain/models"
	"github.com/osvalr/cantina/internal/service/catalog"
)

// CatalogHandler serves suppliers, products and dishes.
type CatalogHandler struct {
	svc    *catalog.Service
	logger *zap.Logger
}

func NewCatalogHandler(svc *catalog.Service, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{svc: svc, logger: logger}
}

type updateSupplierPayload struct {
	ID string `json:"id" binding:"required"`
	models.SupplierRequest
}

func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.svc.ListSuppliers(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var req models.SupplierRequest
	if !bindJSON(c, &req) {
		return
	}

	supplier, err := h.svc.CreateSupplier(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "supplier created", "id": supplier.ID.Hex()})
}

func (h *CatalogHandler) UpdateSupplier(c *gin.Context) {
	var payload updateSupplierPayload
	if !bindJSON(c, &payload) {
		return
	}

	if _, err := h.svc.UpdateSupplier(c.Request.Context(), identity(c), payload.ID, payload.SupplierRequest); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "supplier updated", "id": payload.ID})
}

func (h *CatalogHandler) DeleteSupplier(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteSupplier(c.Request.Context(), identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "supplier deleted", "id": id})
}

type updateProductPayload struct {
	ID string `json:"id" binding:"required"`
	models.ProductRequest
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.svc.ListProducts(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req models.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.svc.CreateProduct(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "product created", "id": product.ID.Hex()})
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var payload updateProductPayload
	if !bindJSON(c, &payload) {
		return
	}

	if _, err := h.svc.UpdateProduct(c.Request.Context(), identity(c), payload.ID, payload.ProductRequest); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product updated", "id": payload.ID})
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteProduct(c.Request.Context(), identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted", "id": id})
}

type updateDishPayload struct {
	ID string `json:"id" binding:"required"`
	models.DishRequest
}

func (h *CatalogHandler) ListDishes(c *gin.Context) {
	dishes, err := h.svc.ListDishes(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dishes": dishes})
}

func (h *CatalogHandler) CreateDish(c *gin.Context) {
	var req models.DishRequest
	if !bindJSON(c, &req) {
		return
	}

	dish, err := h.svc.CreateDish(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "dish created", "id": dish.ID.Hex()})
}

func (h *CatalogHandler) UpdateDish(c *gin.Context) {
	var payload updateDishPayload
	if !bindJSON(c, &payload) {
		return
	}

	if _, err := h.svc.UpdateDish(c.Request.Context(), identity(c), payload.ID, payload.DishRequest); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "dish updated", "id": payload.ID})
}

func (h *CatalogHandler) DeleteDish(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteDish(c.Request.Context(), identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "dish deleted", "id": id})
}
