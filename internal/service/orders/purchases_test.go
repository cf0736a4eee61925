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
	"github.com/osvalr/cantina/internal/repository/memory"
)

var (
	admin   = models.Identity{UserID: primitive.NewObjectID().Hex(), Email: "admin@example.com", Role: models.RoleAdmin}
	manager = models.Identity{UserID: primitive.NewObjectID().Hex(), Email: "manager@example.com", Role: models.RoleManager}
	cashier = models.Identity{UserID: primitive.NewObjectID().Hex(), Email: "cashier@example.com", Role: models.RoleCashier}
	cook    = models.Identity{UserID: primitive.NewObjectID().Hex(), Email: "cook@example.com", Role: models.RoleCook}
)

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	return memory.NewStore(repository.Capabilities{Transactions: true})
}

func seedProduct(t *testing.T, store repository.Store, name string, qty int64) models.Product {
	t.Helper()
	p := models.Product{Name: name, Quantity: qty, Category: models.CategoryFood}
	require.NoError(t, store.Products().Insert(context.Background(), &p))
	return p
}

func productQty(t *testing.T, store repository.Store, id primitive.ObjectID) int64 {
	t.Helper()
	p, err := store.Products().FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func TestCreatePurchaseIncrementsInventory(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()

	flour := seedProduct(t, store, "Flour", 10)
	oil := seedProduct(t, store, "Oil", 0)

	purchase, err := svc.CreatePurchase(ctx, manager, models.CreatePurchaseRequest{
		Date: "2026-08-30",
		Time: "09:15:00",
		Lines: []models.PurchaseLineRequest{
			{ProductID: flour.ID.Hex(), Quantity: 5, UnitCost: 2},
			{ProductID: oil.ID.Hex(), Quantity: 3, UnitCost: 4},
			{ProductID: flour.ID.Hex(), Quantity: 2, UnitCost: 2},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 5*2+3*4+2*2, purchase.Total, 1e-9)
	assert.Len(t, purchase.Lines, 3)
	assert.Equal(t, "Flour", purchase.Lines[0].Name)
	assert.Equal(t, manager, purchase.CreatedBy)

	assert.EqualValues(t, 17, productQty(t, store, flour.ID))
	assert.EqualValues(t, 3, productQty(t, store, oil.ID))

	stored, err := store.Purchases().FindByID(ctx, purchase.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Lines, 3)
}

func TestCreatePurchaseUnknownProductLeavesInventoryUntouched(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()

	flour := seedProduct(t, store, "Flour", 10)

	_, err := svc.CreatePurchase(ctx, admin, models.CreatePurchaseRequest{
		Lines: []models.PurchaseLineRequest{
			{ProductID: flour.ID.Hex(), Quantity: 5, UnitCost: 2},
			{ProductID: primitive.NewObjectID().Hex(), Quantity: 1, UnitCost: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	assert.EqualValues(t, 10, productQty(t, store, flour.ID))

	purchases, err := store.Purchases().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

// failingProducts lets one increment succeed and fails the next, simulating a
// mid-unit write failure.
type failingProducts struct {
	repository.ProductRepository
	calls int
}

func (f *failingProducts) IncrementQuantity(ctx context.Context, id primitive.ObjectID, delta int64) error {
	f.calls++
	if f.calls > 1 {
		return assert.AnError
	}
	return f.ProductRepository.IncrementQuantity(ctx, id, delta)
}

type faultyStore struct {
	*memory.Store
	products *failingProducts
}

func (s *faultyStore) Products() repository.ProductRepository { return s.products }

func TestCreatePurchaseRollsBackOnIncrementFailure(t *testing.T) {
	inner := newTestStore(t)
	store := &faultyStore{Store: inner, products: &failingProducts{ProductRepository: inner.Products()}}
	svc := NewService(store, nil)
	ctx := context.Background()

	flour := seedProduct(t, inner, "Flour", 10)
	oil := seedProduct(t, inner, "Oil", 0)

	_, err := svc.CreatePurchase(ctx, admin, models.CreatePurchaseRequest{
		Lines: []models.PurchaseLineRequest{
			{ProductID: flour.ID.Hex(), Quantity: 5, UnitCost: 2},
			{ProductID: oil.ID.Hex(), Quantity: 3, UnitCost: 4},
		},
	})
	require.Error(t, err)

	// The first increment succeeded inside the unit but the rollback must
	// restore it.
	assert.EqualValues(t, 10, productQty(t, inner, flour.ID))
	assert.EqualValues(t, 0, productQty(t, inner, oil.ID))

	purchases, err := inner.Purchases().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestDeletePurchaseReversesInventory(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()

	flour := seedProduct(t, store, "Flour", 10)

	purchase, err := svc.CreatePurchase(ctx, admin, models.CreatePurchaseRequest{
		Lines: []models.PurchaseLineRequest{{ProductID: flour.ID.Hex(), Quantity: 5, UnitCost: 2}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 15, productQty(t, store, flour.ID))

	require.NoError(t, svc.DeletePurchase(ctx, admin, purchase.ID.Hex()))

	assert.EqualValues(t, 10, productQty(t, store, flour.ID))
	stored, err := store.Purchases().FindByID(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestDeletePurchaseUnknownID(t *testing.T) {
	svc := NewService(newTestStore(t), nil)

	err := svc.DeletePurchase(context.Background(), admin, primitive.NewObjectID().Hex())
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	err = svc.DeletePurchase(context.Background(), admin, "not-an-id")
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestPurchaseAuthorization(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()

	flour := seedProduct(t, store, "Flour", 10)
	req := models.CreatePurchaseRequest{
		Lines: []models.PurchaseLineRequest{{ProductID: flour.ID.Hex(), Quantity: 1, UnitCost: 1}},
	}

	for _, actor := range []models.Identity{cashier, cook} {
		_, err := svc.CreatePurchase(ctx, actor, req)
		assert.True(t, apperr.IsKind(err, apperr.Forbidden), "role %s", actor.Role)
	}

	_, err := svc.ListPurchases(ctx, cook)
	assert.True(t, apperr.IsKind(err, apperr.Forbidden))

	err = svc.DeletePurchase(ctx, manager, primitive.NewObjectID().Hex())
	assert.True(t, apperr.IsKind(err, apperr.Forbidden))
}

func TestUpdatePurchaseHeaderOnly(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()

	flour := seedProduct(t, store, "Flour", 0)
	purchase, err := svc.CreatePurchase(ctx, admin, models.CreatePurchaseRequest{
		Lines: []models.PurchaseLineRequest{{ProductID: flour.ID.Hex(), Quantity: 2, UnitCost: 3}},
	})
	require.NoError(t, err)

	total := 99.5
	updated, err := svc.UpdatePurchase(ctx, manager, models.UpdatePurchaseRequest{
		ID:    purchase.ID.Hex(),
		Date:  "2026-08-01",
		Total: &total,
	})
	require.NoError(t, err)

	assert.InDelta(t, 99.5, updated.Total, 1e-9)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, manager.Email, updated.UpdatedBy.Email)

	// Lines and inventory stay as recorded.
	stored, err := store.Purchases().FindByID(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 1)
	assert.EqualValues(t, 2, productQty(t, store, flour.ID))
}

func TestCreatePurchaseValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()

	flour := seedProduct(t, store, "Flour", 0)

	cases := []models.CreatePurchaseRequest{
		{},
		{Lines: []models.PurchaseLineRequest{{ProductID: flour.ID.Hex(), Quantity: 0, UnitCost: 1}}},
		{Lines: []models.PurchaseLineRequest{{ProductID: flour.ID.Hex(), Quantity: 1, UnitCost: 0}}},
		{Date: "30/08/2026", Lines: []models.PurchaseLineRequest{{ProductID: flour.ID.Hex(), Quantity: 1, UnitCost: 1}}},
		{Time: "9h15", Lines: []models.PurchaseLineRequest{{ProductID: flour.ID.Hex(), Quantity: 1, UnitCost: 1}}},
	}
	for i, req := range cases {
		_, err := svc.CreatePurchase(ctx, admin, req)
		assert.True(t, apperr.IsKind(err, apperr.Validation), "case %d", i)
	}
}
