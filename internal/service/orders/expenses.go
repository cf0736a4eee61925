package orders

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/osvalr/cantina/internal/auth"
	"github.com/osvalr/cantina/internal/domain/apperr"
	"github.com/osvalr/cantina/internal/domain/models"
)

func (s *Service) ListExpenses(ctx context.Context, actor models.Identity) ([]models.Expense, error) {
	if err := requireOp(auth.OpReadExpenses, actor); err != nil {
		return nil, err
	}
	return s.store.Expenses().List(ctx)
}

// CreateExpense resolves the optional purchase and employee references before
// persisting; the employee is embedded as a snapshot.
func (s *Service) CreateExpense(ctx context.Context, actor models.Identity, req models.ExpenseRequest) (*models.Expense, error) {
	if err := requireOp(auth.OpCreateExpense, actor); err != nil {
		return nil, err
	}

	expense, err := s.buildExpense(ctx, req)
	if err != nil {
		return nil, err
	}
	expense.CreatedBy = actor

	if err := s.store.Expenses().Insert(ctx, expense); err != nil {
		return nil, err
	}

	s.logger.Info("expense recorded",
		zap.String("id", expense.ID.Hex()),
		zap.String("concept", expense.Concept),
		zap.Float64("total", expense.Total))
	return expense, nil
}

func (s *Service) UpdateExpense(ctx context.Context, actor models.Identity, req models.UpdateExpenseRequest) (*models.Expense, error) {
	if err := requireOp(auth.OpUpdateExpense, actor); err != nil {
		return nil, err
	}

	id, err := parseID(req.ID, "expense")
	if err != nil {
		return nil, err
	}
	current, err := s.store.Expenses().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.Newf(apperr.NotFound, "expense %s not found", req.ID)
	}

	expense, err := s.buildExpense(ctx, models.ExpenseRequest{
		Concept:    req.Concept,
		Total:      req.Total,
		Date:       req.Date,
		Type:       req.Type,
		PurchaseID: req.PurchaseID,
		EmployeeID: req.EmployeeID,
	})
	if err != nil {
		return nil, err
	}

	expense.ID = id
	expense.CreatedBy = current.CreatedBy
	expense.CreatedAt = current.CreatedAt
	expense.UpdatedBy = &actor
	expense.UpdatedAt = time.Now()
	if err := s.store.Expenses().Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// DeleteExpense is unconditional: nothing references an expense. Worth
// revisiting if expenses ever become a dependency of another record.
func (s *Service) DeleteExpense(ctx context.Context, actor models.Identity, hexID string) error {
	if err := requireOp(auth.OpDeleteExpense, actor); err != nil {
		return err
	}

	id, err := parseID(hexID, "expense")
	if err != nil {
		return err
	}

	expense, err := s.store.Expenses().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return apperr.Newf(apperr.NotFound, "expense %s not found", hexID)
	}

	return s.store.Expenses().Delete(ctx, id)
}

func (s *Service) buildExpense(ctx context.Context, req models.ExpenseRequest) (*models.Expense, error) {
	concept := strings.TrimSpace(req.Concept)
	if concept == "" {
		return nil, apperr.New(apperr.Validation, "expense concept must not be empty")
	}
	if req.Total < 0 {
		return nil, apperr.New(apperr.Validation, "expense total must not be negative")
	}

	expenseType := req.Type
	if expenseType == "" {
		expenseType = models.ExpenseOther
	}
	if !expenseType.Valid() {
		return nil, apperr.Newf(apperr.Validation, "invalid expense type %q", expenseType)
	}

	date, err := resolveDate(req.Date)
	if err != nil {
		return nil, err
	}

	var purchaseID *primitive.ObjectID
	if strings.TrimSpace(req.PurchaseID) != "" {
		id, err := parseID(req.PurchaseID, "purchase")
		if err != nil {
			return nil, err
		}
		purchase, err := s.store.Purchases().FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if purchase == nil {
			return nil, apperr.Newf(apperr.NotFound, "purchase %s not found", req.PurchaseID)
		}
		purchaseID = &id
	}

	var employee *models.EmployeeSnapshot
	if strings.TrimSpace(req.EmployeeID) != "" {
		id, err := parseID(req.EmployeeID, "employee")
		if err != nil {
			return nil, err
		}
		found, err := s.store.Employees().FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, apperr.Newf(apperr.NotFound, "employee %s not found", req.EmployeeID)
		}
		employee = found.Snapshot()
	}

	now := time.Now()
	return &models.Expense{
		Concept:    concept,
		Total:      req.Total,
		Date:       date,
		Type:       expenseType,
		PurchaseID: purchaseID,
		Employee:   employee,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
