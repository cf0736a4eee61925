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

func (s *Service) ListProducts(ctx context.Context, actor models.Identity) ([]models.Product, error) {
	if err := requireOp(auth.OpReadProducts, actor); err != nil {
		return nil, err
	}
	return s.store.Products().List(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, actor models.Identity, req models.ProductRequest) (*models.Product, error) {
	if err := requireOp(auth.OpWriteProduct, actor); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.New(apperr.Validation, "product name must not be empty")
	}

	category := req.Category
	if category == "" {
		category = models.CategoryFood
	}
	if !category.Valid() {
		return nil, apperr.Newf(apperr.Validation, "invalid product category %q", category)
	}

	var quantity int64
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, apperr.New(apperr.Validation, "product quantity must not be negative")
		}
		quantity = *req.Quantity
	}

	snapshot, err := s.resolveSupplierSnapshot(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &models.Product{
		Name:      name,
		Quantity:  quantity,
		Category:  category,
		Supplier:  snapshot,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Products().Insert(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.String("id", product.ID.Hex()), zap.String("name", product.Name))
	return product, nil
}

// UpdateProduct rewrites descriptive fields. Quantity is deliberately left
// alone: inventory moves only through the purchase procedure.
func (s *Service) UpdateProduct(ctx context.Context, actor models.Identity, hexID string, req models.ProductRequest) (*models.Product, error) {
	if err := requireOp(auth.OpWriteProduct, actor); err != nil {
		return nil, err
	}

	id, err := parseID(hexID, "product")
	if err != nil {
		return nil, err
	}

	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.Newf(apperr.NotFound, "product %s not found", hexID)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.New(apperr.Validation, "product name must not be empty")
	}

	category := req.Category
	if category == "" {
		category = product.Category
	}
	if !category.Valid() {
		return nil, apperr.Newf(apperr.Validation, "invalid product category %q", category)
	}

	snapshot := product.Supplier
	if req.SupplierID != "" {
		snapshot, err = s.resolveSupplierSnapshot(ctx, req.SupplierID)
		if err != nil {
			return nil, err
		}
	}

	product.Name = name
	product.Category = category
	product.Supplier = snapshot
	product.UpdatedAt = time.Now()
	if err := s.store.Products().Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct refuses to remove a product referenced by a purchase line or
// used as a dish ingredient.
func (s *Service) DeleteProduct(ctx context.Context, actor models.Identity, hexID string) error {
	if err := requireOp(auth.OpDeleteProduct, actor); err != nil {
		return err
	}

	id, err := parseID(hexID, "product")
	if err != nil {
		return err
	}

	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperr.Newf(apperr.NotFound, "product %s not found", hexID)
	}

	purchases, err := s.store.Purchases().CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	dishes, err := s.store.Dishes().CountByIngredient(ctx, id)
	if err != nil {
		return err
	}
	if purchases > 0 || dishes > 0 {
		return apperr.Newf(apperr.Conflict, "product %q is referenced by %d purchases and %d dishes", product.Name, purchases, dishes)
	}

	return s.store.Products().Delete(ctx, id)
}

func (s *Service) resolveSupplierSnapshot(ctx context.Context, hexID string) (*models.SupplierSnapshot, error) {
	if strings.TrimSpace(hexID) == "" {
		return nil, nil
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
	return supplier.Snapshot(), nil
}
