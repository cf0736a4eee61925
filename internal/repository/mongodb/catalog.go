package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/osvalr/cantina/internal/domain/models"
)

type supplierRepo struct{ s *Store }

func (r *supplierRepo) Insert(ctx context.Context, sup *models.Supplier) error {
	return r.s.withRetry(func() error {
		res, err := r.s.collection(collSuppliers).InsertOne(ctx, sup)
		if err != nil {
			return fmt.Errorf("insert supplier: %w", err)
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			sup.ID = id
		}
		return nil
	})
}

func (r *supplierRepo) Update(ctx context.Context, sup *models.Supplier) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collSuppliers).ReplaceOne(ctx, bson.M{"_id": sup.ID}, sup)
		if err != nil {
			return fmt.Errorf("update supplier %s: %w", sup.ID.Hex(), err)
		}
		return nil
	})
}

func (r *supplierRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collSuppliers).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("delete supplier %s: %w", id.Hex(), err)
		}
		return nil
	})
}

func (r *supplierRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Supplier, error) {
	var sup models.Supplier
	err := r.s.withRetry(func() error {
		return r.s.collection(collSuppliers).FindOne(ctx, bson.M{"_id": id}).Decode(&sup)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find supplier %s: %w", id.Hex(), err)
	}
	return &sup, nil
}

func (r *supplierRepo) FindByName(ctx context.Context, name string) (*models.Supplier, error) {
	var sup models.Supplier
	err := r.s.withRetry(func() error {
		return r.s.collection(collSuppliers).FindOne(ctx, bson.M{"name": name}).Decode(&sup)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find supplier by name: %w", err)
	}
	return &sup, nil
}

func (r *supplierRepo) List(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.s.withRetry(func() error {
		cursor, err := r.s.collection(collSuppliers).Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			return fmt.Errorf("list suppliers: %w", err)
		}
		suppliers = suppliers[:0]
		return cursor.All(ctx, &suppliers)
	})
	return suppliers, err
}

type productRepo struct{ s *Store }

func (r *productRepo) Insert(ctx context.Context, p *models.Product) error {
	return r.s.withRetry(func() error {
		res, err := r.s.collection(collProducts).InsertOne(ctx, p)
		if err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			p.ID = id
		}
		return nil
	})
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collProducts).ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
		if err != nil {
			return fmt.Errorf("update product %s: %w", p.ID.Hex(), err)
		}
		return nil
	})
}

func (r *productRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collProducts).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("delete product %s: %w", id.Hex(), err)
		}
		return nil
	})
}

func (r *productRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := r.s.withRetry(func() error {
		return r.s.collection(collProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id.Hex(), err)
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.s.withRetry(func() error {
		cursor, err := r.s.collection(collProducts).Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		products = products[:0]
		return cursor.All(ctx, &products)
	})
	return products, err
}

// IncrementQuantity uses $inc so concurrent purchase increments commute.
func (r *productRepo) IncrementQuantity(ctx context.Context, id primitive.ObjectID, delta int64) error {
	return r.s.withRetry(func() error {
		res, err := r.s.collection(collProducts).UpdateByID(ctx, id,
			bson.M{"$inc": bson.M{"quantity": delta}})
		if err != nil {
			return fmt.Errorf("increment product %s quantity: %w", id.Hex(), err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("increment product %s quantity: %w", id.Hex(), mongo.ErrNoDocuments)
		}
		return nil
	})
}

func (r *productRepo) CountBySupplier(ctx context.Context, supplierID primitive.ObjectID) (int64, error) {
	var n int64
	err := r.s.withRetry(func() error {
		var err error
		n, err = r.s.collection(collProducts).CountDocuments(ctx, bson.M{"supplier._id": supplierID})
		return err
	})
	return n, err
}

type dishRepo struct{ s *Store }

func (r *dishRepo) Insert(ctx context.Context, d *models.Dish) error {
	return r.s.withRetry(func() error {
		res, err := r.s.collection(collDishes).InsertOne(ctx, d)
		if err != nil {
			return fmt.Errorf("insert dish: %w", err)
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			d.ID = id
		}
		return nil
	})
}

func (r *dishRepo) Update(ctx context.Context, d *models.Dish) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collDishes).ReplaceOne(ctx, bson.M{"_id": d.ID}, d)
		if err != nil {
			return fmt.Errorf("update dish %s: %w", d.ID.Hex(), err)
		}
		return nil
	})
}

func (r *dishRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collDishes).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("delete dish %s: %w", id.Hex(), err)
		}
		return nil
	})
}

func (r *dishRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Dish, error) {
	var d models.Dish
	err := r.s.withRetry(func() error {
		return r.s.collection(collDishes).FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find dish %s: %w", id.Hex(), err)
	}
	return &d, nil
}

func (r *dishRepo) FindByName(ctx context.Context, name string) (*models.Dish, error) {
	var d models.Dish
	err := r.s.withRetry(func() error {
		return r.s.collection(collDishes).FindOne(ctx, bson.M{"name": name}).Decode(&d)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find dish by name: %w", err)
	}
	return &d, nil
}

func (r *dishRepo) List(ctx context.Context) ([]models.Dish, error) {
	var dishes []models.Dish
	err := r.s.withRetry(func() error {
		cursor, err := r.s.collection(collDishes).Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			return fmt.Errorf("list dishes: %w", err)
		}
		dishes = dishes[:0]
		return cursor.All(ctx, &dishes)
	})
	return dishes, err
}

func (r *dishRepo) CountByIngredient(ctx context.Context, productID primitive.ObjectID) (int64, error) {
	var n int64
	err := r.s.withRetry(func() error {
		var err error
		n, err = r.s.collection(collDishes).CountDocuments(ctx, bson.M{"ingredients.product_id": productID})
		return err
	})
	return n, err
}
