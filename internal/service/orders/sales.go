package orders

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/osvalr/cantina/internal/auth"
	"github.com/osvalr/cantina/internal/domain/apperr"
	"github.com/osvalr/cantina/internal/domain/models"
)

func (s *Service) ListSales(ctx context.Context, actor models.Identity) ([]models.Sale, error) {
	if err := requireOp(auth.OpReadSales, actor); err != nil {
		return nil, err
	}
	return s.store.Sales().List(ctx)
}

// CreateSale records an outbound order. Each line resolves its dish and takes
// a name snapshot; the line price is the caller override when given, the
// dish's current price otherwise. The total is always recomputed from the
// lines. Sales do not touch product inventory.
func (s *Service) CreateSale(ctx context.Context, actor models.Identity, req models.CreateSaleRequest) (*models.Sale, error) {
	if err := requireOp(auth.OpCreateSale, actor); err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, apperr.New(apperr.Validation, "sale needs at least one line")
	}
	if !req.PaymentMethod.Valid() {
		return nil, apperr.Newf(apperr.Validation, "invalid payment method %q", req.PaymentMethod)
	}

	date, err := resolveDate(req.Date)
	if err != nil {
		return nil, err
	}
	clock, err := resolveClock(req.Time)
	if err != nil {
		return nil, err
	}

	lines := make([]models.SaleLine, 0, len(req.Lines))
	var total float64
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, apperr.New(apperr.Validation, "line quantity must be greater than zero")
		}

		dishID, err := parseID(line.DishID, "dish")
		if err != nil {
			return nil, err
		}
		dish, err := s.store.Dishes().FindByID(ctx, dishID)
		if err != nil {
			return nil, err
		}
		if dish == nil {
			return nil, apperr.Newf(apperr.NotFound, "dish %s not found", line.DishID)
		}

		price := dish.Price
		if line.Price != nil && *line.Price > 0 {
			price = *line.Price
		}

		subtotal := float64(line.Quantity) * price
		lines = append(lines, models.SaleLine{
			DishID:   dishID,
			Name:     dish.Name,
			Quantity: line.Quantity,
			Price:    price,
			Subtotal: subtotal,
		})
		total += subtotal
	}

	now := time.Now()
	sale := &models.Sale{
		Date:          date,
		Time:          clock,
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		Lines:         lines,
		CreatedBy:     actor,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Sales().Insert(ctx, sale); err != nil {
		return nil, err
	}

	s.logger.Info("sale recorded",
		zap.String("id", sale.ID.Hex()),
		zap.Float64("total", sale.Total),
		zap.String("payment_method", string(sale.PaymentMethod)))
	return sale, nil
}

// UpdateSale touches header fields only.
func (s *Service) UpdateSale(ctx context.Context, actor models.Identity, req models.UpdateSaleRequest) (*models.Sale, error) {
	if err := requireOp(auth.OpUpdateSale, actor); err != nil {
		return nil, err
	}

	id, err := parseID(req.ID, "sale")
	if err != nil {
		return nil, err
	}
	sale, err := s.store.Sales().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperr.Newf(apperr.NotFound, "sale %s not found", req.ID)
	}

	if req.Date != "" {
		if sale.Date, err = resolveDate(req.Date); err != nil {
			return nil, err
		}
	}
	if req.Time != "" {
		if sale.Time, err = resolveClock(req.Time); err != nil {
			return nil, err
		}
	}
	if req.Total != nil {
		if *req.Total < 0 {
			return nil, apperr.New(apperr.Validation, "total must not be negative")
		}
		sale.Total = *req.Total
	}
	if req.PaymentMethod != "" {
		if !req.PaymentMethod.Valid() {
			return nil, apperr.Newf(apperr.Validation, "invalid payment method %q", req.PaymentMethod)
		}
		sale.PaymentMethod = req.PaymentMethod
	}

	sale.UpdatedBy = &actor
	sale.UpdatedAt = time.Now()
	if err := s.store.Sales().UpdateHeader(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// DeleteSale removes the document. No inventory reversal: creation did not
// move inventory either.
func (s *Service) DeleteSale(ctx context.Context, actor models.Identity, hexID string) error {
	if err := requireOp(auth.OpDeleteSale, actor); err != nil {
		return err
	}

	id, err := parseID(hexID, "sale")
	if err != nil {
		return err
	}

	sale, err := s.store.Sales().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if sale == nil {
		return apperr.Newf(apperr.NotFound, "sale %s not found", hexID)
	}

	return s.store.Sales().Delete(ctx, id)
}
