package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Supplier is a vendor products are purchased from. Name is stored
// case-normalized and is unique across the collection.
type Supplier struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// SupplierSnapshot is the immutable copy embedded into products and purchases
// at write time; renaming the supplier later does not touch it.
type SupplierSnapshot struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// Snapshot captures the supplier's display fields.
func (s Supplier) Snapshot() *SupplierSnapshot {
	return &SupplierSnapshot{ID: s.ID, Name: s.Name}
}

type SupplierRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" binding:"omitempty,email"`
}
