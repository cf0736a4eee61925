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

type payGradeRepo struct{ s *Store }

func (r *payGradeRepo) Insert(ctx context.Context, p *models.PayGrade) error {
	return r.s.withRetry(func() error {
		res, err := r.s.collection(collPayGrades).InsertOne(ctx, p)
		if err != nil {
			return fmt.Errorf("insert pay grade: %w", err)
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			p.ID = id
		}
		return nil
	})
}

func (r *payGradeRepo) Update(ctx context.Context, p *models.PayGrade) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collPayGrades).ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
		if err != nil {
			return fmt.Errorf("update pay grade %s: %w", p.ID.Hex(), err)
		}
		return nil
	})
}

func (r *payGradeRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collPayGrades).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("delete pay grade %s: %w", id.Hex(), err)
		}
		return nil
	})
}

func (r *payGradeRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PayGrade, error) {
	var p models.PayGrade
	err := r.s.withRetry(func() error {
		return r.s.collection(collPayGrades).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find pay grade %s: %w", id.Hex(), err)
	}
	return &p, nil
}

func (r *payGradeRepo) FindByTitle(ctx context.Context, title string) (*models.PayGrade, error) {
	var p models.PayGrade
	err := r.s.withRetry(func() error {
		return r.s.collection(collPayGrades).FindOne(ctx, bson.M{"title": title}).Decode(&p)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find pay grade by title: %w", err)
	}
	return &p, nil
}

func (r *payGradeRepo) List(ctx context.Context) ([]models.PayGrade, error) {
	var grades []models.PayGrade
	err := r.s.withRetry(func() error {
		cursor, err := r.s.collection(collPayGrades).Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
		if err != nil {
			return fmt.Errorf("list pay grades: %w", err)
		}
		grades = grades[:0]
		return cursor.All(ctx, &grades)
	})
	return grades, err
}

type employeeRepo struct{ s *Store }

func (r *employeeRepo) Insert(ctx context.Context, e *models.Employee) error {
	return r.s.withRetry(func() error {
		res, err := r.s.collection(collEmployees).InsertOne(ctx, e)
		if err != nil {
			return fmt.Errorf("insert employee: %w", err)
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			e.ID = id
		}
		return nil
	})
}

func (r *employeeRepo) Update(ctx context.Context, e *models.Employee) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collEmployees).ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
		if err != nil {
			return fmt.Errorf("update employee %s: %w", e.ID.Hex(), err)
		}
		return nil
	})
}

func (r *employeeRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collEmployees).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("delete employee %s: %w", id.Hex(), err)
		}
		return nil
	})
}

func (r *employeeRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	var e models.Employee
	err := r.s.withRetry(func() error {
		return r.s.collection(collEmployees).FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find employee %s: %w", id.Hex(), err)
	}
	return &e, nil
}

func (r *employeeRepo) List(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.s.withRetry(func() error {
		cursor, err := r.s.collection(collEmployees).Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			return fmt.Errorf("list employees: %w", err)
		}
		employees = employees[:0]
		return cursor.All(ctx, &employees)
	})
	return employees, err
}

func (r *employeeRepo) CountByPayGrade(ctx context.Context, payGradeID primitive.ObjectID) (int64, error) {
	var n int64
	err := r.s.withRetry(func() error {
		var err error
		n, err = r.s.collection(collEmployees).CountDocuments(ctx, bson.M{"pay_grade._id": payGradeID})
		return err
	})
	return n, err
}

func (r *employeeRepo) CascadePayGrade(ctx context.Context, snapshot models.PayGradeSnapshot) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collEmployees).UpdateMany(ctx,
			bson.M{"pay_grade._id": snapshot.ID},
			bson.M{"$set": bson.M{
				"pay_grade.title":  snapshot.Title,
				"pay_grade.salary": snapshot.Salary,
				"updated_at":       time.Now(),
			}})
		if err != nil {
			return fmt.Errorf("cascade pay grade %s: %w", snapshot.ID.Hex(), err)
		}
		return nil
	})
}

type userRepo struct{ s *Store }

func (r *userRepo) Insert(ctx context.Context, u *models.User) error {
	return r.s.withRetry(func() error {
		res, err := r.s.collection(collUsers).InsertOne(ctx, u)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			u.ID = id
		}
		return nil
	})
}

func (r *userRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := r.s.withRetry(func() error {
		return r.s.collection(collUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id.Hex(), err)
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.s.withRetry(func() error {
		return r.s.collection(collUsers).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

func (r *userRepo) UpdateLastAccess(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return r.s.withRetry(func() error {
		_, err := r.s.collection(collUsers).UpdateByID(ctx, id,
			bson.M{"$set": bson.M{"last_access_at": at, "updated_at": at}})
		if err != nil {
			return fmt.Errorf("update user %s last access: %w", id.Hex(), err)
		}
		return nil
	})
}
