package orders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/osvalr/cantina/internal/auth"
	"github.com/osvalr/cantina/internal/domain/apperr"
	"github.com/osvalr/cantina/internal/domain/models"
)

func (s *Service) ListPurchases(ctx context.Context, actor models.Identity) ([]models.Purchase, error) {
	if err := requireOp(auth.OpReadPurchases, actor); err != nil {
		return nil, err
	}
	return s.store.Purchases().List(ctx)
}

// CreatePurchase records an inbound order: it resolves and snapshots the
// supplier and every product line, computes the total from the lines,
// increments product inventory and persists the purchase document. All writes
// form one atomic unit; a failed lookup leaves inventory untouched and writes
// nothing.
func (s *Service) CreatePurchase(ctx context.Context, actor models.Identity, req models.CreatePurchaseRequest) (*models.Purchase, error) {
	if err := requireOp(auth.OpCreatePurchase, actor); err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, apperr.New(apperr.Validation, "purchase needs at least one line")
	}

	date, err := resolveDate(req.Date)
	if err != nil {
		return nil, err
	}
	clock, err := resolveClock(req.Time)
	if err != nil {
		return nil, err
	}

	var supplier *models.SupplierSnapshot
	if req.SupplierID != "" {
		supplierID, err := parseID(req.SupplierID, "supplier")
		if err != nil {
			return nil, err
		}
		found, err := s.store.Suppliers().FindByID(ctx, supplierID)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, apperr.Newf(apperr.NotFound, "supplier %s not found", req.SupplierID)
		}
		supplier = found.Snapshot()
	}

	now := time.Now()
	purchase := &models.Purchase{
		Date:      date,
		Time:      clock,
		Supplier:  supplier,
		CreatedBy: actor,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.store.Atomic(ctx, func(ctx context.Context) error {
		lines, total, err := s.resolvePurchaseLines(ctx, req.Lines)
		if err != nil {
			return err
		}
		purchase.Lines = lines
		purchase.Total = total

		// One increment per distinct product, in first-seen order.
		type delta struct {
			id  primitive.ObjectID
			qty int64
		}
		deltas := make([]delta, 0, len(lines))
		index := make(map[primitive.ObjectID]int, len(lines))
		for _, line := range lines {
			if i, ok := index[line.ProductID]; ok {
				deltas[i].qty += line.Quantity
				continue
			}
			index[line.ProductID] = len(deltas)
			deltas = append(deltas, delta{id: line.ProductID, qty: line.Quantity})
		}
		for _, d := range deltas {
			if err := s.store.Products().IncrementQuantity(ctx, d.id, d.qty); err != nil {
				return err
			}
		}

		return s.store.Purchases().Insert(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase recorded",
		zap.String("id", purchase.ID.Hex()),
		zap.Float64("total", purchase.Total),
		zap.Int("lines", len(purchase.Lines)))
	return purchase, nil
}

func (s *Service) resolvePurchaseLines(ctx context.Context, reqLines []models.PurchaseLineRequest) ([]models.PurchaseLine, float64, error) {
	lines := make([]models.PurchaseLine, 0, len(reqLines))
	var total float64

	for _, line := range reqLines {
		if line.Quantity <= 0 {
			return nil, 0, apperr.New(apperr.Validation, "line quantity must be greater than zero")
		}
		if line.UnitCost <= 0 {
			return nil, 0, apperr.New(apperr.Validation, "line unit cost must be greater than zero")
		}

		productID, err := parseID(line.ProductID, "product")
		if err != nil {
			return nil, 0, err
		}
		product, err := s.store.Products().FindByID(ctx, productID)
		if err != nil {
			return nil, 0, err
		}
		if product == nil {
			return nil, 0, apperr.Newf(apperr.NotFound, "product %s not found", line.ProductID)
		}

		lines = append(lines, models.PurchaseLine{
			ProductID: productID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
		})
		total += float64(line.Quantity) * line.UnitCost
	}

	return lines, total, nil
}

// UpdatePurchase touches header fields only; lines and inventory stay as
// recorded. A changed supplier is re-resolved and re-snapshotted.
func (s *Service) UpdatePurchase(ctx context.Context, actor models.Identity, req models.UpdatePurchaseRequest) (*models.Purchase, error) {
	if err := requireOp(auth.OpUpdatePurchase, actor); err != nil {
		return nil, err
	}

	id, err := parseID(req.ID, "purchase")
	if err != nil {
		return nil, err
	}
	purchase, err := s.store.Purchases().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, apperr.Newf(apperr.NotFound, "purchase %s not found", req.ID)
	}

	if req.Date != "" {
		if purchase.Date, err = resolveDate(req.Date); err != nil {
			return nil, err
		}
	}
	if req.Time != "" {
		if purchase.Time, err = resolveClock(req.Time); err != nil {
			return nil, err
		}
	}
	if req.Total != nil {
		if *req.Total < 0 {
			return nil, apperr.New(apperr.Validation, "total must not be negative")
		}
		purchase.Total = *req.Total
	}
	if req.SupplierID != "" {
		supplierID, err := parseID(req.SupplierID, "supplier")
		if err != nil {
			return nil, err
		}
		supplier, err := s.store.Suppliers().FindByID(ctx, supplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, apperr.Newf(apperr.NotFound, "supplier %s not found", req.SupplierID)
		}
		purchase.Supplier = supplier.Snapshot()
	}

	purchase.UpdatedBy = &actor
	purchase.UpdatedAt = time.Now()
	if err := s.store.Purchases().UpdateHeader(ctx, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// DeletePurchase reverses the inventory effect of every embedded line and
// removes the purchase document, as one atomic unit.
func (s *Service) DeletePurchase(ctx context.Context, actor models.Identity, hexID string) error {
	if err := requireOp(auth.OpDeletePurchase, actor); err != nil {
		return err
	}

	id, err := parseID(hexID, "purchase")
	if err != nil {
		return err
	}

	err = s.store.Atomic(ctx, func(ctx context.Context) error {
		purchase, err := s.store.Purchases().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return apperr.Newf(apperr.NotFound, "purchase %s not found", hexID)
		}

		for _, line := range purchase.Lines {
			if err := s.store.Products().IncrementQuantity(ctx, line.ProductID, -line.Quantity); err != nil {
				return err
			}
		}

		return s.store.Purchases().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("purchase deleted with inventory reversal", zap.String("id", hexID))
	return nil
}
