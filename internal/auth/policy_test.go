package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osvalr/cantina/internal/domain/models"
)

func TestDeletesAreAdminOnly(t *testing.T) {
	deletes := []Operation{
		OpDeleteSupplier, OpDeleteProduct, OpDeleteDish, OpDeletePayGrade,
		OpDeleteEmployee, OpDeletePurchase, OpDeleteSale, OpDeleteExpense,
	}

	for _, op := range deletes {
		assert.True(t, Authorize(op, models.RoleAdmin), "admin denied %s", op)
		for _, role := range []models.Role{models.RoleManager, models.RoleCashier, models.RoleCook} {
			assert.False(t, Authorize(op, role), "%s allowed %s", role, op)
		}
	}
}

func TestSalePolicy(t *testing.T) {
	assert.True(t, Authorize(OpCreateSale, models.RoleCashier))
	assert.True(t, Authorize(OpReadSales, models.RoleCashier))
	assert.False(t, Authorize(OpUpdateSale, models.RoleCashier))
	assert.False(t, Authorize(OpCreateSale, models.RoleCook))
}

func TestExpensePolicy(t *testing.T) {
	assert.True(t, Authorize(OpCreateExpense, models.RoleManager))
	assert.False(t, Authorize(OpReadExpenses, models.RoleManager))
	assert.False(t, Authorize(OpUpdateExpense, models.RoleManager))
	assert.True(t, Authorize(OpReadExpenses, models.RoleAdmin))
}

func TestCatalogReadsOpenToAllRoles(t *testing.T) {
	for _, op := range []Operation{OpReadSuppliers, OpReadProducts, OpReadDishes} {
		for _, role := range []models.Role{models.RoleAdmin, models.RoleManager, models.RoleCashier, models.RoleCook} {
			assert.True(t, Authorize(op, role), "%s denied %s", role, op)
		}
	}
}

func TestUnknownOperationDenied(t *testing.T) {
	assert.False(t, Authorize(Operation("nope"), models.RoleAdmin))
}

func TestRolesForCopies(t *testing.T) {
	roles := RolesFor(OpReadReports)
	assert.ElementsMatch(t, []models.Role{models.RoleAdmin, models.RoleManager}, roles)

	roles[0] = models.RoleCook
	assert.ElementsMatch(t, []models.Role{models.RoleAdmin, models.RoleManager}, RolesFor(OpReadReports))
}
