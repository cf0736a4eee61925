package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PayGrade defines a job title with its monthly salary. Title is unique.
// Updating a pay grade cascades the new title and salary into the snapshot of
// every employee assigned to it.
type PayGrade struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	MonthlySalary float64            `bson:"monthly_salary" json:"monthly_salary"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// PayGradeSnapshot is embedded into employees at assignment time and refreshed
// by the pay-grade update cascade.
type PayGradeSnapshot struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Title  string             `bson:"title" json:"title"`
	Salary float64            `bson:"salary" json:"salary"`
}

func (p PayGrade) Snapshot() *PayGradeSnapshot {
	return &PayGradeSnapshot{ID: p.ID, Title: p.Title, Salary: p.MonthlySalary}
}

// Employee is a staff member, optionally assigned to a pay grade.
type Employee struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	PayGrade  *PayGradeSnapshot  `bson:"pay_grade,omitempty" json:"pay_grade,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// EmployeeSnapshot is the short form embedded into expenses.
type EmployeeSnapshot struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

func (e Employee) Snapshot() *EmployeeSnapshot {
	return &EmployeeSnapshot{ID: e.ID, Name: e.Name}
}

type PayGradeRequest struct {
	Title         string  `json:"title" binding:"required"`
	MonthlySalary float64 `json:"monthly_salary" binding:"gte=0"`
}

type EmployeeRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	Email      string `json:"email" binding:"omitempty,email"`
	PayGradeID string `json:"pay_grade_id"`
}
