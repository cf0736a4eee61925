package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductCategory groups inventory items for the storefront.
type ProductCategory string

const (
	CategoryFood     ProductCategory = "food"
	CategoryBeverage ProductCategory = "beverage"
	CategoryCleaning ProductCategory = "cleaning"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryFood, CategoryBeverage, CategoryCleaning:
		return true
	}
	return false
}

// Product is an inventory item. Quantity is only mutated by the purchase
// procedure: creation increments it, purchase deletion reverses it.
type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Quantity  int64              `bson:"quantity" json:"quantity"`
	Category  ProductCategory    `bson:"category" json:"category"`
	Supplier  *SupplierSnapshot  `bson:"supplier,omitempty" json:"supplier,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type ProductRequest struct {
	Name       string          `json:"name" binding:"required"`
	Quantity   *int64          `json:"quantity" binding:"omitempty,gte=0"`
	Category   ProductCategory `json:"category" binding:"omitempty,productcategory"`
	SupplierID string          `json:"supplier_id"`
}
