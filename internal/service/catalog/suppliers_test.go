package catalog

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
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore(repository.Capabilities{Transactions: true})
	return NewService(store, nil), store
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"acme foods":   "Acme foods",
		"  ACME  ":     "Acme",
		"éclair":       "Éclair",
		"":             "",
		"   ":          "",
		"McFood SUPPLY": "Mcfood supply",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeName(in), "input %q", in)
	}
}

func TestCreateSupplierNormalizesAndDeduplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateSupplier(ctx, manager, models.SupplierRequest{Name: "  acme foods "})
	require.NoError(t, err)
	assert.Equal(t, "Acme foods", created.Name)

	// A differently-cased spelling normalizes to the same name.
	_, err = svc.CreateSupplier(ctx, manager, models.SupplierRequest{Name: "ACME FOODS"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}

func TestUpdateSupplierKeepsOwnName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateSupplier(ctx, admin, models.SupplierRequest{Name: "Acme"})
	require.NoError(t, err)

	// Re-saving under its own name is not a conflict.
	updated, err := svc.UpdateSupplier(ctx, admin, created.ID.Hex(), models.SupplierRequest{Name: "acme", Phone: "555-0101"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Name)
	assert.Equal(t, "555-0101", updated.Phone)

	other, err := svc.CreateSupplier(ctx, admin, models.SupplierRequest{Name: "Bravo"})
	require.NoError(t, err)
	_, err = svc.UpdateSupplier(ctx, admin, other.ID.Hex(), models.SupplierRequest{Name: "ACME"})
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}

func TestDeleteSupplierWithDependents(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	supplier, err := svc.CreateSupplier(ctx, admin, models.SupplierRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, admin, models.ProductRequest{Name: "Flour", SupplierID: supplier.ID.Hex()})
	require.NoError(t, err)

	err = svc.DeleteSupplier(ctx, admin, supplier.ID.Hex())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))

	// Still present.
	found, err := store.Suppliers().FindByID(ctx, supplier.ID)
	require.NoError(t, err)
	assert.NotNil(t, found)
}

func TestSupplierValidationAndAuthorization(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateSupplier(ctx, manager, models.SupplierRequest{Name: "   "})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = svc.CreateSupplier(ctx, manager, models.SupplierRequest{Name: "Acme", Email: "not-an-email"})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = svc.CreateSupplier(ctx, cashier, models.SupplierRequest{Name: "Acme"})
	assert.True(t, apperr.IsKind(err, apperr.Forbidden))

	err = svc.DeleteSupplier(ctx, manager, primitive.NewObjectID().Hex())
	assert.True(t, apperr.IsKind(err, apperr.Forbidden))

	err = svc.DeleteSupplier(ctx, admin, primitive.NewObjectID().Hex())
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}
