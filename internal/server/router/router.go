// Package router wires the Gin engine: middleware, custom binding validators
// and the full route table.
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/osvalr/cantina/internal/auth"
	"github.com/osvalr/cantina/internal/domain/models"
	"github.com/osvalr/cantina/internal/server/handlers"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Catalog *handlers.CatalogHandler
	Staff   *handlers.StaffHandler
	Orders  *handlers.OrdersHandler
	Reports *handlers.ReportsHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, tokens *auth.TokenManager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("", authMiddleware(tokens))
	authed.GET("/auth/me", h.Auth.Me)

	authed.GET("/suppliers", h.Catalog.ListSuppliers)
	authed.POST("/suppliers", h.Catalog.CreateSupplier)
	authed.PUT("/suppliers", h.Catalog.UpdateSupplier)
	authed.DELETE("/suppliers/:id", h.Catalog.DeleteSupplier)

	authed.GET("/products", h.Catalog.ListProducts)
	authed.POST("/products", h.Catalog.CreateProduct)
	authed.PUT("/products", h.Catalog.UpdateProduct)
	authed.DELETE("/products/:id", h.Catalog.DeleteProduct)

	authed.GET("/dishes", h.Catalog.ListDishes)
	authed.POST("/dishes", h.Catalog.CreateDish)
	authed.PUT("/dishes", h.Catalog.UpdateDish)
	authed.DELETE("/dishes/:id", h.Catalog.DeleteDish)

	authed.GET("/paygrades", h.Staff.ListPayGrades)
	authed.POST("/paygrades", h.Staff.CreatePayGrade)
	authed.PUT("/paygrades", h.Staff.UpdatePayGrade)
	authed.DELETE("/paygrades/:id", h.Staff.DeletePayGrade)

	authed.GET("/employees", h.Staff.ListEmployees)
	authed.POST("/employees", h.Staff.CreateEmployee)
	authed.PUT("/employees", h.Staff.UpdateEmployee)
	authed.DELETE("/employees/:id", h.Staff.DeleteEmployee)

	authed.GET("/purchases", h.Orders.ListPurchases)
	authed.POST("/purchases", h.Orders.CreatePurchase)
	authed.PUT("/purchases", h.Orders.UpdatePurchase)
	authed.DELETE("/purchases/:id", h.Orders.DeletePurchase)

	authed.GET("/sales", h.Orders.ListSales)
	authed.POST("/sales", h.Orders.CreateSale)
	authed.PUT("/sales", h.Orders.UpdateSale)
	authed.DELETE("/sales/:id", h.Orders.DeleteSale)

	authed.GET("/expenses", h.Orders.ListExpenses)
	authed.POST("/expenses", h.Orders.CreateExpense)
	authed.PUT("/expenses", h.Orders.UpdateExpense)
	authed.DELETE("/expenses/:id", h.Orders.DeleteExpense)

	authed.GET("/reports/summary", h.Reports.Summary)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

// authMiddleware resolves the bearer token and stores the caller identity for
// the handlers. Role enforcement happens in the services.
func authMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := tokens.ResolveHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing credentials"})
			return
		}
		c.Set(handlers.IdentityContextKey, id)
		c.Next()
	}
}

// registerValidators installs the enum checks referenced by binding tags.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("productcategory", func(fl validator.FieldLevel) bool {
		return models.ProductCategory(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		return models.PaymentMethod(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("expensetype", func(fl validator.FieldLevel) bool {
		return models.ExpenseType(fl.Field().String()).Valid()
	})
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
