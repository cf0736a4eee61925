package auth

import "github.com/osvalr/cantina/internal/domain/models"

// Operation identifies a gated action. Every mutating or sensitive-read
// service method consults the policy table through Authorize before touching
// any repository.
type Operation string

const (
	OpReadSuppliers  Operation = "suppliers.read"
	OpWriteSupplier  Operation = "suppliers.write"
	OpDeleteSupplier Operation = "suppliers.delete"

	OpReadProducts  Operation = "products.read"
	OpWriteProduct  Operation = "products.write"
	OpDeleteProduct Operation = "products.delete"

	OpReadDishes Operation = "dishes.read"
	OpWriteDish  Operation = "dishes.write"
	OpDeleteDish Operation = "dishes.delete"

	OpReadPayGrades Operation = "paygrades.read"
	OpWritePayGrade Operation = "paygrades.write"
	OpDeletePayGrade Operation = "paygrades.delete"

	OpReadEmployees Operation = "employees.read"
	OpWriteEmployee Operation = "employees.write"
	OpDeleteEmployee Operation = "employees.delete"

	OpReadPurchases  Operation = "purchases.read"
	OpCreatePurchase Operation = "purchases.create"
	OpUpdatePurchase Operation = "purchases.update"
	OpDeletePurchase Operation = "purchases.delete"

	OpReadSales  Operation = "sales.read"
	OpCreateSale Operation = "sales.create"
	OpUpdateSale Operation = "sales.update"
	OpDeleteSale Operation = "sales.delete"

	OpReadExpenses  Operation = "expenses.read"
	OpCreateExpense Operation = "expenses.create"
	OpUpdateExpense Operation = "expenses.update"
	OpDeleteExpense Operation = "expenses.delete"

	OpReadReports Operation = "reports.read"
)

var allRoles = []models.Role{models.RoleAdmin, models.RoleManager, models.RoleCashier, models.RoleCook}

// policy is the static operation -> allowed roles table. Deletes are admin
// only; order-transaction creation follows the till hierarchy.
var policy = map[Operation][]models.Role{
	OpReadSuppliers:  allRoles,
	OpWriteSupplier:  {models.RoleAdmin, models.RoleManager},
	OpDeleteSupplier: {models.RoleAdmin},

	OpReadProducts:  allRoles,
	OpWriteProduct:  {models.RoleAdmin, models.RoleManager},
	OpDeleteProduct: {models.RoleAdmin},

	OpReadDishes: allRoles,
	OpWriteDish:  {models.RoleAdmin, models.RoleManager},
	OpDeleteDish: {models.RoleAdmin},

	OpReadPayGrades:  {models.RoleAdmin, models.RoleManager},
	OpWritePayGrade:  {models.RoleAdmin},
	OpDeletePayGrade: {models.RoleAdmin},

	OpReadEmployees:  {models.RoleAdmin, models.RoleManager},
	OpWriteEmployee:  {models.RoleAdmin, models.RoleManager},
	OpDeleteEmployee: {models.RoleAdmin},

	OpReadPurchases:  {models.RoleAdmin, models.RoleManager},
	OpCreatePurchase: {models.RoleAdmin, models.RoleManager},
	OpUpdatePurchase: {models.RoleAdmin, models.RoleManager},
	OpDeletePurchase: {models.RoleAdmin},

	OpReadSales:  {models.RoleAdmin, models.RoleManager, models.RoleCashier},
	OpCreateSale: {models.RoleAdmin, models.RoleManager, models.RoleCashier},
	OpUpdateSale: {models.RoleAdmin, models.RoleManager},
	OpDeleteSale: {models.RoleAdmin},

	OpReadExpenses:  {models.RoleAdmin},
	OpCreateExpense: {models.RoleAdmin, models.RoleManager},
	OpUpdateExpense: {models.RoleAdmin},
	OpDeleteExpense: {models.RoleAdmin},

	OpReadReports: {models.RoleAdmin, models.RoleManager},
}

// Authorize reports whether role may perform op. Unknown operations are denied.
func Authorize(op Operation, role models.Role) bool {
	for _, allowed := range policy[op] {
		if allowed == role {
			return true
		}
	}
	return false
}

// RolesFor exposes the allowed set for an operation, mainly for tests and
// route documentation.
func RolesFor(op Operation) []models.Role {
	roles := policy[op]
	out := make([]models.Role, len(roles))
	copy(out, roles)
	return out
}
