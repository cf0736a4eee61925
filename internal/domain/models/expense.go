package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExpenseType categorizes a cash outflow.
type ExpenseType string

const (
	ExpensePurchase  ExpenseType = "purchase"
	ExpenseSalary    ExpenseType = "salary"
	ExpenseUtilities ExpenseType = "utilities"
	ExpenseOther     ExpenseType = "other"
)

func (t ExpenseType) Valid() bool {
	switch t {
	case ExpensePurchase, ExpenseSalary, ExpenseUtilities, ExpenseOther:
		return true
	}
	return false
}

// Expense records a cash outflow, optionally tied to a purchase or employee.
// Expense deletion is unconditional; nothing references an expense.
type Expense struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Concept    string              `bson:"concept" json:"concept"`
	Total      float64             `bson:"total" json:"total"`
	Date       time.Time           `bson:"date" json:"date"`
	Type       ExpenseType         `bson:"type" json:"type"`
	PurchaseID *primitive.ObjectID `bson:"purchase_id,omitempty" json:"purchase_id,omitempty"`
	Employee   *EmployeeSnapshot   `bson:"employee,omitempty" json:"employee,omitempty"`
	CreatedBy  Identity            `bson:"created_by" json:"created_by"`
	UpdatedBy  *Identity           `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updated_at"`
}

type ExpenseRequest struct {
	Concept    string      `json:"concept" binding:"required"`
	Total      float64     `json:"total" binding:"gte=0"`
	Date       string      `json:"date"`
	Type       ExpenseType `json:"type" binding:"omitempty,expensetype"`
	PurchaseID string      `json:"purchase_id"`
	EmployeeID string      `json:"employee_id"`
}

type UpdateExpenseRequest struct {
	ID         string      `json:"id" binding:"required"`
	Concept    string      `json:"concept" binding:"required"`
	Total      float64     `json:"total" binding:"gte=0"`
	Date       string      `json:"date"`
	Type       ExpenseType `json:"type" binding:"omitempty,expensetype"`
	PurchaseID string      `json:"purchase_id"`
	EmployeeID string      `json:"employee_id"`
}
