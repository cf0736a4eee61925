package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osvalr/cantina/internal/domain/apperr"
	"github.com/osvalr/cantina/internal/domain/models"
)

func TestCreateProductDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, manager, models.ProductRequest{Name: "Flour"})
	require.NoError(t, err)

	assert.Equal(t, models.CategoryFood, product.Category)
	assert.EqualValues(t, 0, product.Quantity)
	assert.Nil(t, product.Supplier)
}

func TestCreateProductWithSupplierSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	supplier, err := svc.CreateSupplier(ctx, admin, models.SupplierRequest{Name: "Acme"})
	require.NoError(t, err)

	qty := int64(12)
	product, err := svc.CreateProduct(ctx, admin, models.ProductRequest{
		Name:       "Flour",
		Quantity:   &qty,
		Category:   models.CategoryCleaning,
		SupplierID: supplier.ID.Hex(),
	})
	require.NoError(t, err)

	require.NotNil(t, product.Supplier)
	assert.Equal(t, supplier.ID, product.Supplier.ID)
	assert.Equal(t, "Acme", product.Supplier.Name)
	assert.EqualValues(t, 12, product.Quantity)

	// Renaming the supplier afterwards must not rewrite the snapshot.
	_, err = svc.UpdateSupplier(ctx, admin, supplier.ID.Hex(), models.SupplierRequest{Name: "Bravo"})
	require.NoError(t, err)

	products, err := svc.ListProducts(ctx, admin)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Acme", products[0].Supplier.Name)
}

func TestUpdateProductLeavesQuantityAlone(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	qty := int64(7)
	product, err := svc.CreateProduct(ctx, admin, models.ProductRequest{Name: "Flour", Quantity: &qty})
	require.NoError(t, err)

	newQty := int64(999)
	updated, err := svc.UpdateProduct(ctx, admin, product.ID.Hex(), models.ProductRequest{
		Name:     "Bread flour",
		Quantity: &newQty,
		Category: models.CategoryBeverage,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bread flour", updated.Name)
	assert.Equal(t, models.CategoryBeverage, updated.Category)
	assert.EqualValues(t, 7, updated.Quantity)

	stored, err := store.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 7, stored.Quantity)
}

func TestDeleteProductUsedAsIngredient(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, admin, models.ProductRequest{Name: "Flour"})
	require.NoError(t, err)

	_, err = svc.CreateDish(ctx, admin, models.DishRequest{
		Name:        "Bread",
		Price:       1.5,
		Category:    "bakery",
		Ingredients: []models.IngredientRequest{{ProductID: product.ID.Hex(), Quantity: 0.5}},
	})
	require.NoError(t, err)

	err = svc.DeleteProduct(ctx, admin, product.ID.Hex())
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}

func TestDishUniquenessAndIngredientResolution(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, admin, models.ProductRequest{Name: "Flour"})
	require.NoError(t, err)

	dish, err := svc.CreateDish(ctx, manager, models.DishRequest{
		Name:        "Bread",
		Price:       1.5,
		Category:    "bakery",
		Ingredients: []models.IngredientRequest{{ProductID: product.ID.Hex(), Quantity: 0.5}},
	})
	require.NoError(t, err)
	require.Len(t, dish.Ingredients, 1)
	assert.Equal(t, "Flour", dish.Ingredients[0].Name)

	_, err = svc.CreateDish(ctx, manager, models.DishRequest{Name: "Bread", Price: 2, Category: "bakery"})
	assert.True(t, apperr.IsKind(err, apperr.Conflict))

	_, err = svc.CreateDish(ctx, manager, models.DishRequest{
		Name:        "Cake",
		Price:       3,
		Category:    "bakery",
		Ingredients: []models.IngredientRequest{{ProductID: "ffffffffffffffffffffffff", Quantity: 1}},
	})
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	_, err = svc.CreateDish(ctx, manager, models.DishRequest{Name: "Free bread", Price: 0, Category: "bakery"})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}
