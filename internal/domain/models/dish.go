package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ingredient links a dish to an inventory product with a name snapshot taken
// when the dish was saved.
type Ingredient struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	Quantity  float64            `bson:"quantity" json:"quantity"`
}

// Dish is a menu item. Name is unique; Price must be positive.
type Dish struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Ingredients []Ingredient       `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

type IngredientRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
}

type DishRequest struct {
	Name        string              `json:"name" binding:"required"`
	Price       float64             `json:"price" binding:"required,gt=0"`
	Category    string              `json:"category" binding:"required"`
	Ingredients []IngredientRequest `json:"ingredients"`
}
