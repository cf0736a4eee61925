package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/osvalr/cantina/internal/repository"
)

const (
	collSuppliers = "suppliers"
	collProducts  = "products"
	collDishes    = "dishes"
	collPayGrades = "pay_grades"
	collEmployees = "employees"
	collPurchases = "purchases"
	collSales     = "sales"
	collExpenses  = "expenses"
	collUsers     = "users"
	collSummaries = "daily_summaries"
)

// Store is the MongoDB-backed implementation of repository.Store.
type Store struct {
	client *mongo.Client
	dbName string
	caps   repository.Capabilities
	logger *zap.Logger
}

// NewStore connects, verifies the connection, probes transaction support and
// ensures the unique indexes the write paths rely on.
func NewStore(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := &Store{client: client, dbName: dbName, logger: logger}
	s.caps = probeCapabilities(ctx, client)
	if s.caps.Transactions {
		logger.Info("mongodb multi-document transactions available")
	} else {
		logger.Warn("mongodb standalone detected, atomicity of multi-document units is not guaranteed")
	}

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	return s, nil
}

// probeCapabilities asks the server whether it is part of a replica set or a
// sharded cluster; only those topologies support multi-document transactions.
func probeCapabilities(ctx context.Context, client *mongo.Client) repository.Capabilities {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}

	err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello)
	if err != nil {
		return repository.Capabilities{}
	}

	return repository.Capabilities{
		Transactions: hello.SetName != "" || hello.Msg == "isdbgrid",
	}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := map[string]mongo.IndexModel{
		collUsers:     {Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		collSuppliers: {Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		collDishes:    {Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		collPayGrades: {Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	for coll, model := range indexes {
		if _, err := s.collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("index on %s: %w", coll, err)
		}
	}
	return nil
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}

// withRetry retries an operation once on a transient network failure before
// surfacing the error. Business operations are never retried above this layer.
func (s *Store) withRetry(op func() error) error {
	err := op()
	if err != nil && mongo.IsNetworkError(err) {
		s.logger.Warn("retrying mongodb operation after network error", zap.Error(err))
		err = op()
	}
	return err
}

// Capabilities reports what was detected at startup.
func (s *Store) Capabilities() repository.Capabilities { return s.caps }

// Atomic runs fn inside a session transaction when the topology allows it.
// On a standalone node fn runs directly: same business logic, best-effort
// application, as logged at startup.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.caps.Transactions {
		return fn(ctx)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (s *Store) Suppliers() repository.SupplierRepository { return &supplierRepo{s} }
func (s *Store) Products() repository.ProductRepository   { return &productRepo{s} }
func (s *Store) Dishes() repository.DishRepository        { return &dishRepo{s} }
func (s *Store) PayGrades() repository.PayGradeRepository { return &payGradeRepo{s} }
func (s *Store) Employees() repository.EmployeeRepository { return &employeeRepo{s} }
func (s *Store) Purchases() repository.PurchaseRepository { return &purchaseRepo{s} }
func (s *Store) Sales() repository.SaleRepository         { return &saleRepo{s} }
func (s *Store) Expenses() repository.ExpenseRepository   { return &expenseRepo{s} }
func (s *Store) Users() repository.UserRepository         { return &userRepo{s} }
func (s *Store) Summaries() repository.SummaryRepository  { return &summaryRepo{s} }

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// sumTotals aggregates the total field over documents matching filter.
func (s *Store) sumTotals(ctx context.Context, coll string, filter bson.M) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total"}}}},
	}

	var total float64
	err := s.withRetry(func() error {
		cursor, err := s.collection(coll).Aggregate(ctx, pipeline)
		if err != nil {
			return fmt.Errorf("aggregate %s totals: %w", coll, err)
		}
		defer cursor.Close(ctx)

		var result struct {
			Total float64 `bson:"total"`
		}
		if cursor.Next(ctx) {
			if err := cursor.Decode(&result); err != nil {
				return fmt.Errorf("decode %s totals: %w", coll, err)
			}
		}
		total = result.Total
		return cursor.Err()
	})
	return total, err
}
