package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/osvalr/cantina/internal/domain/models"
	"github.com/osvalr/cantina/internal/repository"
)

func TestAtomicRollsBackWithTransactions(t *testing.T) {
	store := NewStore(repository.Capabilities{Transactions: true})
	ctx := context.Background()

	p := models.Product{Name: "Flour", Quantity: 10}
	require.NoError(t, store.Products().Insert(ctx, &p))

	err := store.Atomic(ctx, func(ctx context.Context) error {
		if err := store.Products().IncrementQuantity(ctx, p.ID, 5); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	found, err := store.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 10, found.Quantity)
}

func TestAtomicBestEffortWithoutTransactions(t *testing.T) {
	store := NewStore(repository.Capabilities{})
	ctx := context.Background()

	p := models.Product{Name: "Flour", Quantity: 10}
	require.NoError(t, store.Products().Insert(ctx, &p))

	err := store.Atomic(ctx, func(ctx context.Context) error {
		if err := store.Products().IncrementQuantity(ctx, p.ID, 5); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	// Standalone semantics: the applied write sticks.
	found, err := store.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 15, found.Quantity)
}

func TestIncrementQuantityUnknownProduct(t *testing.T) {
	store := NewStore(repository.Capabilities{Transactions: true})
	err := store.Products().IncrementQuantity(context.Background(), primitive.NewObjectID(), 1)
	assert.Error(t, err)
}

func TestFindMissingReturnsNilNil(t *testing.T) {
	store := NewStore(repository.Capabilities{Transactions: true})
	ctx := context.Background()

	supplier, err := store.Suppliers().FindByID(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Nil(t, supplier)

	user, err := store.Users().FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}
