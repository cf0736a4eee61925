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

func (s *Service) ListSuppliers(ctx context.Context, actor models.Identity) ([]models.Supplier, error) {
	if err := requireOp(auth.OpReadSuppliers, actor); err != nil {
		return nil, err
	}
	return s.store.Suppliers().List(ctx)
}

func (s *Service) CreateSupplier(ctx context.Context, actor models.Identity, req models.SupplierRequest) (*models.Supplier, error) {
	if err := requireOp(auth.OpWriteSupplier, actor); err != nil {
		return nil, err
	}

	name := NormalizeName(req.Name)
	if name == "" {
		return nil, apperr.New(apperr.Validation, "supplier name must not be empty")
	}
	if err := validEmail(req.Email); err != nil {
		return nil, err
	}

	existing, err := s.store.Suppliers().FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Newf(apperr.Conflict, "supplier %q already exists", name)
	}

	now := time.Now()
	supplier := &models.Supplier{
		Name:      name,
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Suppliers().Insert(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("supplier created", zap.String("id", supplier.ID.Hex()), zap.String("name", supplier.Name))
	return supplier, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, actor models.Identity, hexID string, req models.SupplierRequest) (*models.Supplier, error) {
	if err := requireOp(auth.OpWriteSupplier, actor); err != nil {
		return nil, err
	}

	id, err := parseID(hexID, "supplier")
	if err != nil {
		return nil, err
	}

	supplier, err := s.store.Suppliers().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperr.Newf(apperr.NotFound, "supplier %s not found", hexID)
	}

	name := NormalizeName(req.Name)
	if name == "" {
		return nil, apperr.New(apperr.Validation, "supplier name must not be empty")
	}
	if err := validEmail(req.Email); err != nil {
		return nil, err
	}

	existing, err := s.store.Suppliers().FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, apperr.Newf(apperr.Conflict, "supplier %q already exists", name)
	}

	supplier.Name = name
	supplier.Phone = strings.TrimSpace(req.Phone)
	supplier.Email = strings.TrimSpace(req.Email)
	supplier.UpdatedAt = time.Now()
	if err := s.store.Suppliers().Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// DeleteSupplier refuses to remove a supplier that is still referenced by any
// product or recorded purchase.
func (s *Service) DeleteSupplier(ctx context.Context, actor models.Identity, hexID string) error {
	if err := requireOp(auth.OpDeleteSupplier, actor); err != nil {
		return err
	}

	id, err := parseID(hexID, "supplier")
	if err != nil {
		return err
	}

	supplier, err := s.store.Suppliers().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return apperr.Newf(apperr.NotFound, "supplier %s not found", hexID)
	}

	products, err := s.store.Products().CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	purchases, err := s.store.Purchases().CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if products > 0 || purchases > 0 {
		return apperr.Newf(apperr.Conflict, "supplier %q is referenced by %d products and %d purchases", supplier.Name, products, purchases)
	}

	return s.store.Suppliers().Delete(ctx, id)
}
