package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/osvalr/cantina/internal/domain/apperr"
	"github.com/osvalr/cantina/internal/domain/models"
	"github.com/osvalr/cantina/internal/repository"
)

func seedDish(t *testing.T, store repository.Store, name string, price float64) models.Dish {
	t.Helper()
	d := models.Dish{Name: name, Price: price, Category: "main"}
	require.NoError(t, store.Dishes().Insert(context.Background(), &d))
	return d
}

func TestCreateSaleComputesTotalFromDishPrices(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()

	soup := seedDish(t, store, "Soup", 2.50)

	sale, err := svc.CreateSale(ctx, cashier, models.CreateSaleRequest{
		PaymentMethod: models.PaymentCash,
		Lines:         []models.SaleLineRequest{{DishID: soup.ID.Hex(), Quantity: 3}},
	})
	require.NoError(t, err)

	assert.InDelta(t, 7.50, sale.Total, 1e-9)
	require.Len(t, sale.Lines, 1)
	assert.Equal(t, "Soup", sale.Lines[0].Name)
	assert.InDelta(t, 2.50, sale.Lines[0].Price, 1e-9)
	assert.InDelta(t, 7.50, sale.Lines[0].Subtotal, 1e-9)
	assert.Equal(t, cashier, sale.CreatedBy)
}

func TestCreateSalePriceOverride(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()

	soup := seedDish(t, store, "Soup", 2.50)
	override := 2.00

	sale, err := svc.CreateSale(ctx, manager, models.CreateSaleRequest{
		PaymentMethod: models.PaymentCard,
		Lines: []models.SaleLineRequest{
			{DishID: soup.ID.Hex(), Quantity: 2, Price: &override},
			{DishID: soup.ID.Hex(), Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 2*2.00+2.50, sale.Total, 1e-9)
	assert.InDelta(t, 2.00, sale.Lines[0].Price, 1e-9)
	assert.InDelta(t, 2.50, sale.Lines[1].Price, 1e-9)
}

func TestCreateSaleDoesNotTouchInventory(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()

	flour := seedProduct(t, store, "Flour", 10)
	soup := seedDish(t, store, "Soup", 3)

	sale, err := svc.CreateSale(ctx, cashier, models.CreateSaleRequest{
		PaymentMethod: models.PaymentCash,
		Lines:         []models.SaleLineRequest{{DishID: soup.ID.Hex(), Quantity: 2}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 10, productQty(t, store, flour.ID))

	require.NoError(t, svc.DeleteSale(ctx, admin, sale.ID.Hex()))
	assert.EqualValues(t, 10, productQty(t, store, flour.ID))
}

func TestCreateSaleRejections(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()

	soup := seedDish(t, store, "Soup", 3)

	_, err := svc.CreateSale(ctx, cashier, models.CreateSaleRequest{
		PaymentMethod: "check",
		Lines:         []models.SaleLineRequest{{DishID: soup.ID.Hex(), Quantity: 1}},
	})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = svc.CreateSale(ctx, cashier, models.CreateSaleRequest{
		PaymentMethod: models.PaymentCash,
		Lines:         []models.SaleLineRequest{{DishID: primitive.NewObjectID().Hex(), Quantity: 1}},
	})
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	_, err = svc.CreateSale(ctx, cook, models.CreateSaleRequest{
		PaymentMethod: models.PaymentCash,
		Lines:         []models.SaleLineRequest{{DishID: soup.ID.Hex(), Quantity: 1}},
	})
	assert.True(t, apperr.IsKind(err, apperr.Forbidden))
}

func TestUpdateSaleHeaderOnly(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()

	soup := seedDish(t, store, "Soup", 3)
	sale, err := svc.CreateSale(ctx, cashier, models.CreateSaleRequest{
		PaymentMethod: models.PaymentCash,
		Lines:         []models.SaleLineRequest{{DishID: soup.ID.Hex(), Quantity: 2}},
	})
	require.NoError(t, err)

	// Cashiers may record sales but not rewrite them.
	_, err = svc.UpdateSale(ctx, cashier, models.UpdateSaleRequest{ID: sale.ID.Hex(), PaymentMethod: models.PaymentCard})
	assert.True(t, apperr.IsKind(err, apperr.Forbidden))

	updated, err := svc.UpdateSale(ctx, manager, models.UpdateSaleRequest{ID: sale.ID.Hex(), PaymentMethod: models.PaymentCard})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCard, updated.PaymentMethod)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, manager.Email, updated.UpdatedBy.Email)

	stored, err := store.Sales().FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 1)
}
