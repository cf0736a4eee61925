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

func (s *Service) ListDishes(ctx context.Context, actor models.Identity) ([]models.Dish, error) {
	if err := requireOp(auth.OpReadDishes, actor); err != nil {
		return nil, err
	}
	return s.store.Dishes().List(ctx)
}

func (s *Service) CreateDish(ctx context.Context, actor models.Identity, req models.DishRequest) (*models.Dish, error) {
	if err := requireOp(auth.OpWriteDish, actor); err != nil {
		return nil, err
	}

	dish, err := s.buildDish(ctx, req)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Dishes().FindByName(ctx, dish.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Newf(apperr.Conflict, "dish %q already exists", dish.Name)
	}

	if err := s.store.Dishes().Insert(ctx, dish); err != nil {
		return nil, err
	}

	s.logger.Info("dish created", zap.String("id", dish.ID.Hex()), zap.String("name", dish.Name))
	return dish, nil
}

func (s *Service) UpdateDish(ctx context.Context, actor models.Identity, hexID string, req models.DishRequest) (*models.Dish, error) {
	if err := requireOp(auth.OpWriteDish, actor); err != nil {
		return nil, err
	}

	id, err := parseID(hexID, "dish")
	if err != nil {
		return nil, err
	}

	current, err := s.store.Dishes().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.Newf(apperr.NotFound, "dish %s not found", hexID)
	}

	dish, err := s.buildDish(ctx, req)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Dishes().FindByName(ctx, dish.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, apperr.Newf(apperr.Conflict, "dish %q already exists", dish.Name)
	}

	dish.ID = id
	dish.CreatedAt = current.CreatedAt
	dish.UpdatedAt = time.Now()
	if err := s.store.Dishes().Update(ctx, dish); err != nil {
		return nil, err
	}
	return dish, nil
}

// DeleteDish refuses to remove a dish that appears on any recorded sale.
func (s *Service) DeleteDish(ctx context.Context, actor models.Identity, hexID string) error {
	if err := requireOp(auth.OpDeleteDish, actor); err != nil {
		return err
	}

	id, err := parseID(hexID, "dish")
	if err != nil {
		return err
	}

	dish, err := s.store.Dishes().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if dish == nil {
		return apperr.Newf(apperr.NotFound, "dish %s not found", hexID)
	}

	sales, err := s.store.Sales().CountByDish(ctx, id)
	if err != nil {
		return err
	}
	if sales > 0 {
		return apperr.Newf(apperr.Conflict, "dish %q is referenced by %d sales", dish.Name, sales)
	}

	return s.store.Dishes().Delete(ctx, id)
}

// buildDish validates the request and resolves every ingredient product into
// a name snapshot.
func (s *Service) buildDish(ctx context.Context, req models.DishRequest) (*models.Dish, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.New(apperr.Validation, "dish name must not be empty")
	}
	if req.Price <= 0 {
		return nil, apperr.New(apperr.Validation, "dish price must be greater than zero")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, apperr.New(apperr.Validation, "dish category must not be empty")
	}

	ingredients := make([]models.Ingredient, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		if ing.Quantity <= 0 {
			return nil, apperr.New(apperr.Validation, "ingredient quantity must be greater than zero")
		}

		productID, err := parseID(ing.ProductID, "product")
		if err != nil {
			return nil, err
		}
		product, err := s.store.Products().FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, apperr.Newf(apperr.NotFound, "product %s not found", ing.ProductID)
		}

		ingredients = append(ingredients, models.Ingredient{
			ProductID: productID,
			Name:      product.Name,
			Quantity:  ing.Quantity,
		})
	}

	now := time.Now()
	return &models.Dish{
		Name:        name,
		Price:       req.Price,
		Category:    category,
		Ingredients: ingredients,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
