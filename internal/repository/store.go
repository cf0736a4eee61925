package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/osvalr/cantina/internal/domain/models"
)

// Capabilities describes what the backing store can guarantee. It is resolved
// once at startup and passed around as a plain value.
type Capabilities struct {
	// Transactions is true when multi-document atomic units are available
	// (replica set or mongos). When false the store applies writes
	// sequentially, best effort.
	Transactions bool
}

// Store bundles the per-collection repositories with the atomic-unit runner.
type Store interface {
	Capabilities() Capabilities

	// Atomic runs fn as one atomic unit when the store supports it: either
	// every write inside fn becomes visible or none does. Implementations
	// without transaction support run fn directly. fn must use the context it
	// receives for every store operation.
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error

	Suppliers() SupplierRepository
	Products() ProductRepository
	Dishes() DishRepository
	PayGrades() PayGradeRepository
	Employees() EmployeeRepository
	Purchases() PurchaseRepository
	Sales() SaleRepository
	Expenses() ExpenseRepository
	Users() UserRepository
	Summaries() SummaryRepository
}

type SupplierRepository interface {
	Insert(ctx context.Context, s *models.Supplier) error
	Update(ctx context.Context, s *models.Supplier) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Supplier, error)
	// FindByName matches the stored (normalized) name exactly.
	FindByName(ctx context.Context, name string) (*models.Supplier, error)
	List(ctx context.Context) ([]models.Supplier, error)
}

type ProductRepository interface {
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	// IncrementQuantity adjusts stock by delta, which may be negative.
	IncrementQuantity(ctx context.Context, id primitive.ObjectID, delta int64) error
	CountBySupplier(ctx context.Context, supplierID primitive.ObjectID) (int64, error)
}

type DishRepository interface {
	Insert(ctx context.Context, d *models.Dish) error
	Update(ctx context.Context, d *models.Dish) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Dish, error)
	FindByName(ctx context.Context, name string) (*models.Dish, error)
	List(ctx context.Context) ([]models.Dish, error)
	CountByIngredient(ctx context.Context, productID primitive.ObjectID) (int64, error)
}

type PayGradeRepository interface {
	Insert(ctx context.Context, p *models.PayGrade) error
	Update(ctx context.Context, p *models.PayGrade) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PayGrade, error)
	FindByTitle(ctx context.Context, title string) (*models.PayGrade, error)
	List(ctx context.Context) ([]models.PayGrade, error)
}

type EmployeeRepository interface {
	Insert(ctx context.Context, e *models.Employee) error
	Update(ctx context.Context, e *models.Employee) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
	CountByPayGrade(ctx context.Context, payGradeID primitive.ObjectID) (int64, error)
	// CascadePayGrade refreshes the embedded snapshot of every employee
	// assigned to the given pay grade.
	CascadePayGrade(ctx context.Context, snapshot models.PayGradeSnapshot) error
}

type PurchaseRepository interface {
	Insert(ctx context.Context, p *models.Purchase) error
	UpdateHeader(ctx context.Context, p *models.Purchase) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Purchase, error)
	List(ctx context.Context) ([]models.Purchase, error)
	CountBySupplier(ctx context.Context, supplierID primitive.ObjectID) (int64, error)
	CountByProduct(ctx context.Context, productID primitive.ObjectID) (int64, error)
	SumTotals(ctx context.Context, from, to time.Time) (float64, error)
}

type SaleRepository interface {
	Insert(ctx context.Context, s *models.Sale) error
	UpdateHeader(ctx context.Context, s *models.Sale) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Sale, error)
	List(ctx context.Context) ([]models.Sale, error)
	CountByDish(ctx context.Context, dishID primitive.ObjectID) (int64, error)
	SumTotals(ctx context.Context, from, to time.Time) (float64, error)
}

type ExpenseRepository interface {
	Insert(ctx context.Context, e *models.Expense) error
	Update(ctx context.Context, e *models.Expense) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Expense, error)
	List(ctx context.Context) ([]models.Expense, error)
	CountByEmployee(ctx context.Context, employeeID primitive.ObjectID) (int64, error)
	SumTotals(ctx context.Context, from, to time.Time) (float64, error)
}

// SummaryRepository keeps the scheduler's daily report documents.
type SummaryRepository interface {
	Insert(ctx context.Context, s *models.DailySummary) error
}

type UserRepository interface {
	Insert(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastAccess(ctx context.Context, id primitive.ObjectID, at time.Time) error
}
