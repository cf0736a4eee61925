package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/osvalr/cantina/internal/domain/models"
)

// Transaction documents are listed newest first, matching the back-office
// history views.
var newestFirst = options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "time", Value: -1}})

func dateRange(from, to time.Time) bson.M {
	return bson.M{"date": bson.M{"$gte": from, "$lte": to}}
}

type purchaseRepo struct{ s *Store }

func (r *purchaseRepo) Insert(ctx context.Context, p *models.Purchase) error {
	return r.s.withRetry(func() error {
		res, err := r.s.collection(collPurchases).InsertOne(ctx, p)
		if err != nil {
			return fmt.Errorf("insert purchase: %w", err)
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			p.ID = id
		}
		return nil
	})
}

// UpdateHeader rewrites header fields only; lines are immutable after create.
func (r *purchaseRepo) UpdateHeader(ctx context.Context, p *models.Purchase) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collPurchases).UpdateByID(ctx, p.ID,
			bson.M{"$set": bson.M{
				"date":       p.Date,
				"time":       p.Time,
				"total":      p.Total,
				"supplier":   p.Supplier,
				"updated_by": p.UpdatedBy,
				"updated_at": p.UpdatedAt,
			}})
		if err != nil {
			return fmt.Errorf("update purchase %s: %w", p.ID.Hex(), err)
		}
		return nil
	})
}

func (r *purchaseRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collPurchases).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("delete purchase %s: %w", id.Hex(), err)
		}
		return nil
	})
}

func (r *purchaseRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Purchase, error) {
	var p models.Purchase
	err := r.s.withRetry(func() error {
		return r.s.collection(collPurchases).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find purchase %s: %w", id.Hex(), err)
	}
	return &p, nil
}

func (r *purchaseRepo) List(ctx context.Context) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.s.withRetry(func() error {
		cursor, err := r.s.collection(collPurchases).Find(ctx, bson.M{}, newestFirst)
		if err != nil {
			return fmt.Errorf("list purchases: %w", err)
		}
		purchases = purchases[:0]
		return cursor.All(ctx, &purchases)
	})
	return purchases, err
}

func (r *purchaseRepo) CountBySupplier(ctx context.Context, supplierID primitive.ObjectID) (int64, error) {
	var n int64
	err := r.s.withRetry(func() error {
		var err error
		n, err = r.s.collection(collPurchases).CountDocuments(ctx, bson.M{"supplier._id": supplierID})
		return err
	})
	return n, err
}

func (r *purchaseRepo) CountByProduct(ctx context.Context, productID primitive.ObjectID) (int64, error) {
	var n int64
	err := r.s.withRetry(func() error {
		var err error
		n, err = r.s.collection(collPurchases).CountDocuments(ctx, bson.M{"lines.product_id": productID})
		return err
	})
	return n, err
}

func (r *purchaseRepo) SumTotals(ctx context.Context, from, to time.Time) (float64, error) {
	return r.s.sumTotals(ctx, collPurchases, dateRange(from, to))
}

type saleRepo struct{ s *Store }

func (r *saleRepo) Insert(ctx context.Context, sale *models.Sale) error {
	return r.s.withRetry(func() error {
		res, err := r.s.collection(collSales).InsertOne(ctx, sale)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			sale.ID = id
		}
		return nil
	})
}

func (r *saleRepo) UpdateHeader(ctx context.Context, sale *models.Sale) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collSales).UpdateByID(ctx, sale.ID,
			bson.M{"$set": bson.M{
				"date":           sale.Date,
				"time":           sale.Time,
				"total":          sale.Total,
				"payment_method": sale.PaymentMethod,
				"updated_by":     sale.UpdatedBy,
				"updated_at":     sale.UpdatedAt,
			}})
		if err != nil {
			return fmt.Errorf("update sale %s: %w", sale.ID.Hex(), err)
		}
		return nil
	})
}

func (r *saleRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collSales).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("delete sale %s: %w", id.Hex(), err)
		}
		return nil
	})
}

func (r *saleRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Sale, error) {
	var sale models.Sale
	err := r.s.withRetry(func() error {
		return r.s.collection(collSales).FindOne(ctx, bson.M{"_id": id}).Decode(&sale)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find sale %s: %w", id.Hex(), err)
	}
	return &sale, nil
}

func (r *saleRepo) List(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.s.withRetry(func() error {
		cursor, err := r.s.collection(collSales).Find(ctx, bson.M{}, newestFirst)
		if err != nil {
			return fmt.Errorf("list sales: %w", err)
		}
		sales = sales[:0]
		return cursor.All(ctx, &sales)
	})
	return sales, err
}

func (r *saleRepo) CountByDish(ctx context.Context, dishID primitive.ObjectID) (int64, error) {
	var n int64
	err := r.s.withRetry(func() error {
		var err error
		n, err = r.s.collection(collSales).CountDocuments(ctx, bson.M{"lines.dish_id": dishID})
		return err
	})
	return n, err
}

func (r *saleRepo) SumTotals(ctx context.Context, from, to time.Time) (float64, error) {
	return r.s.sumTotals(ctx, collSales, dateRange(from, to))
}

type expenseRepo struct{ s *Store }

func (r *expenseRepo) Insert(ctx context.Context, e *models.Expense) error {
	return r.s.withRetry(func() error {
		res, err := r.s.collection(collExpenses).InsertOne(ctx, e)
		if err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			e.ID = id
		}
		return nil
	})
}

func (r *expenseRepo) Update(ctx context.Context, e *models.Expense) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collExpenses).ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
		if err != nil {
			return fmt.Errorf("update expense %s: %w", e.ID.Hex(), err)
		}
		return nil
	})
}

func (r *expenseRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collExpenses).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("delete expense %s: %w", id.Hex(), err)
		}
		return nil
	})
}

func (r *expenseRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Expense, error) {
	var e models.Expense
	err := r.s.withRetry(func() error {
		return r.s.collection(collExpenses).FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find expense %s: %w", id.Hex(), err)
	}
	return &e, nil
}

func (r *expenseRepo) List(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.s.withRetry(func() error {
		cursor, err := r.s.collection(collExpenses).Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		expenses = expenses[:0]
		return cursor.All(ctx, &expenses)
	})
	return expenses, err
}

func (r *expenseRepo) CountByEmployee(ctx context.Context, employeeID primitive.ObjectID) (int64, error) {
	var n int64
	err := r.s.withRetry(func() error {
		var err error
		n, err = r.s.collection(collExpenses).CountDocuments(ctx, bson.M{"employee._id": employeeID})
		return err
	})
	return n, err
}

func (r *expenseRepo) SumTotals(ctx context.Context, from, to time.Time) (float64, error) {
	return r.s.sumTotals(ctx, collExpenses, dateRange(from, to))
}

type summaryRepo struct{ s *Store }

func (r *summaryRepo) Insert(ctx context.Context, sum *models.DailySummary) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collSummaries).InsertOne(ctx, sum)
		if err != nil {
			return fmt.Errorf("insert daily summary: %w", err)
		}
		return nil
	})
}
