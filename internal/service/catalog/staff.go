package catalog

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/osvalr/cantina/internal/auth"
	"github.com/osvalr/cantina/internal/domain/apperr"
	"github.com/osvalr/cantina/internal/domain/models"
)

func (s *Service) ListPayGrades(ctx context.Context, actor models.Identity) ([]models.PayGrade, error) {
	if err := requireOp(auth.OpReadPayGrades, actor); err != nil {
		return nil, err
	}
	return s.store.PayGrades().List(ctx)
}

func (s *Service) CreatePayGrade(ctx context.Context, actor models.Identity, req models.PayGradeRequest) (*models.PayGrade, error) {
	if err := requireOp(auth.OpWritePayGrade, actor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.New(apperr.Validation, "pay grade title must not be empty")
	}
	if req.MonthlySalary < 0 {
		return nil, apperr.New(apperr.Validation, "monthly salary must not be negative")
	}

	existing, err := s.store.PayGrades().FindByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Newf(apperr.Conflict, "pay grade %q already exists", title)
	}

	now := time.Now()
	grade := &models.PayGrade{
		Title:         title,
		MonthlySalary: req.MonthlySalary,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.PayGrades().Insert(ctx, grade); err != nil {
		return nil, err
	}

	s.logger.Info("pay grade created", zap.String("id", grade.ID.Hex()), zap.String("title", grade.Title))
	return grade, nil
}

// UpdatePayGrade rewrites the grade and cascades the new title and salary into
// every assigned employee's snapshot, inside one atomic unit.
func (s *Service) UpdatePayGrade(ctx context.Context, actor models.Identity, hexID string, req models.PayGradeRequest) (*models.PayGrade, error) {
	if err := requireOp(auth.OpWritePayGrade, actor); err != nil {
		return nil, err
	}

	id, err := parseID(hexID, "pay grade")
	if err != nil {
		return nil, err
	}

	grade, err := s.store.PayGrades().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if grade == nil {
		return nil, apperr.Newf(apperr.NotFound, "pay grade %s not found", hexID)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.New(apperr.Validation, "pay grade title must not be empty")
	}
	if req.MonthlySalary < 0 {
		return nil, apperr.New(apperr.Validation, "monthly salary must not be negative")
	}

	existing, err := s.store.PayGrades().FindByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, apperr.Newf(apperr.Conflict, "pay grade %q already exists", title)
	}

	grade.Title = title
	grade.MonthlySalary = req.MonthlySalary
	grade.UpdatedAt = time.Now()

	err = s.store.Atomic(ctx, func(ctx context.Context) error {
		if err := s.store.PayGrades().Update(ctx, grade); err != nil {
			return err
		}
		return s.store.Employees().CascadePayGrade(ctx, *grade.Snapshot())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pay grade updated with employee cascade", zap.String("id", grade.ID.Hex()))
	return grade, nil
}

func (s *Service) DeletePayGrade(ctx context.Context, actor models.Identity, hexID string) error {
	if err := requireOp(auth.OpDeletePayGrade, actor); err != nil {
		return err
	}

	id, err := parseID(hexID, "pay grade")
	if err != nil {
		return err
	}

	grade, err := s.store.PayGrades().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if grade == nil {
		return apperr.Newf(apperr.NotFound, "pay grade %s not found", hexID)
	}

	employees, err := s.store.Employees().CountByPayGrade(ctx, id)
	if err != nil {
		return err
	}
	if employees > 0 {
		return apperr.Newf(apperr.Conflict, "pay grade %q is assigned to %d employees", grade.Title, employees)
	}

	return s.store.PayGrades().Delete(ctx, id)
}

func (s *Service) ListEmployees(ctx context.Context, actor models.Identity) ([]models.Employee, error) {
	if err := requireOp(auth.OpReadEmployees, actor); err != nil {
		return nil, err
	}
	return s.store.Employees().List(ctx)
}

func (s *Service) CreateEmployee(ctx context.Context, actor models.Identity, req models.EmployeeRequest) (*models.Employee, error) {
	if err := requireOp(auth.OpWriteEmployee, actor); err != nil {
		return nil, err
	}

	employee, err := s.buildEmployee(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.store.Employees().Insert(ctx, employee); err != nil {
		return nil, err
	}

	s.logger.Info("employee created", zap.String("id", employee.ID.Hex()), zap.String("name", employee.Name))
	return employee, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, actor models.Identity, hexID string, req models.EmployeeRequest) (*models.Employee, error) {
	if err := requireOp(auth.OpWriteEmployee, actor); err != nil {
		return nil, err
	}

	id, err := parseID(hexID, "employee")
	if err != nil {
		return nil, err
	}

	current, err := s.store.Employees().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.Newf(apperr.NotFound, "employee %s not found", hexID)
	}

	employee, err := s.buildEmployee(ctx, req)
	if err != nil {
		return nil, err
	}

	employee.ID = id
	employee.CreatedAt = current.CreatedAt
	employee.UpdatedAt = time.Now()
	if err := s.store.Employees().Update(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// DeleteEmployee refuses to remove an employee referenced by an expense.
func (s *Service) DeleteEmployee(ctx context.Context, actor models.Identity, hexID string) error {
	if err := requireOp(auth.OpDeleteEmployee, actor); err != nil {
		return err
	}

	id, err := parseID(hexID, "employee")
	if err != nil {
		return err
	}

	employee, err := s.store.Employees().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if employee == nil {
		return apperr.Newf(apperr.NotFound, "employee %s not found", hexID)
	}

	expenses, err := s.store.Expenses().CountByEmployee(ctx, id)
	if err != nil {
		return err
	}
	if expenses > 0 {
		return apperr.Newf(apperr.Conflict, "employee %q is referenced by %d expenses", employee.Name, expenses)
	}

	return s.store.Employees().Delete(ctx, id)
}

func (s *Service) buildEmployee(ctx context.Context, req models.EmployeeRequest) (*models.Employee, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.New(apperr.Validation, "employee name must not be empty")
	}
	if err := validEmail(req.Email); err != nil {
		return nil, err
	}

	var snapshot *models.PayGradeSnapshot
	if strings.TrimSpace(req.PayGradeID) != "" {
		id, err := parseID(req.PayGradeID, "pay grade")
		if err != nil {
			return nil, err
		}
		grade, err := s.store.PayGrades().FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if grade == nil {
			return nil, apperr.Newf(apperr.NotFound, "pay grade %s not found", req.PayGradeID)
		}
		snapshot = grade.Snapshot()
	}

	now := time.Now()
	return &models.Employee{
		Name:      name,
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		PayGrade:  snapshot,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
