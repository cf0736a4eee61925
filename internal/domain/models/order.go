package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentMethod is how a sale was settled.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

// PurchaseLine is one product row of a purchase, with the product name
// snapshotted at recording time.
type PurchaseLine struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	Quantity  int64              `bson:"quantity" json:"quantity"`
	UnitCost  float64            `bson:"unit_cost" json:"unit_cost"`
}

// Purchase is an inbound order-transaction. Total is computed from the lines
// by the transaction procedure; creating one increments each referenced
// product's quantity and deleting one reverses those increments.
type Purchase struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date      time.Time          `bson:"date" json:"date"`
	Time      string             `bson:"time" json:"time"`
	Total     float64            `bson:"total" json:"total"`
	Supplier  *SupplierSnapshot  `bson:"supplier,omitempty" json:"supplier,omitempty"`
	Lines     []PurchaseLine     `bson:"lines" json:"lines"`
	CreatedBy Identity           `bson:"created_by" json:"created_by"`
	UpdatedBy *Identity          `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// SaleLine is one dish row of a sale. Price is the dish's price at sale time
// unless the caller overrode it.
type SaleLine struct {
	DishID   primitive.ObjectID `bson:"dish_id" json:"dish_id"`
	Name     string             `bson:"name" json:"name"`
	Quantity int64              `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
	Subtotal float64            `bson:"subtotal" json:"subtotal"`
}

// Sale is an outbound order-transaction. Sales do not touch product inventory.
type Sale struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date          time.Time          `bson:"date" json:"date"`
	Time          string             `bson:"time" json:"time"`
	Total         float64            `bson:"total" json:"total"`
	PaymentMethod PaymentMethod      `bson:"payment_method" json:"payment_method"`
	Lines         []SaleLine         `bson:"lines" json:"lines"`
	CreatedBy     Identity           `bson:"created_by" json:"created_by"`
	UpdatedBy     *Identity          `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

type PurchaseLineRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int64   `json:"quantity" binding:"required,gt=0"`
	UnitCost  float64 `json:"unit_cost" binding:"required,gt=0"`
}

type CreatePurchaseRequest struct {
	Date       string                `json:"date"`
	Time       string                `json:"time"`
	SupplierID string                `json:"supplier_id"`
	Lines      []PurchaseLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdatePurchaseRequest touches header fields only; lines and inventory are
// managed exclusively by create and delete.
type UpdatePurchaseRequest struct {
	ID         string   `json:"id" binding:"required"`
	Date       string   `json:"date"`
	Time       string   `json:"time"`
	Total      *float64 `json:"total" binding:"omitempty,gte=0"`
	SupplierID string   `json:"supplier_id"`
}

type SaleLineRequest struct {
	DishID   string   `json:"dish_id" binding:"required"`
	Quantity int64    `json:"quantity" binding:"required,gt=0"`
	Price    *float64 `json:"price" binding:"omitempty,gt=0"`
}

type CreateSaleRequest struct {
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	PaymentMethod PaymentMethod     `json:"payment_method" binding:"required,paymentmethod"`
	Lines         []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
}

type UpdateSaleRequest struct {
	ID            string        `json:"id" binding:"required"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	Total         *float64      `json:"total" binding:"omitempty,gte=0"`
	PaymentMethod PaymentMethod `json:"payment_method" binding:"omitempty,paymentmethod"`
}
