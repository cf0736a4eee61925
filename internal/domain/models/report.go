package models

import "time"

// DailySummary aggregates transaction totals over an inclusive date range.
// The scheduler persists one per day; the dashboard endpoint computes them on
// demand for arbitrary ranges.
type DailySummary struct {
	From      time.Time `bson:"from" json:"from"`
	To        time.Time `bson:"to" json:"to"`
	Sales     float64   `bson:"sales" json:"sales"`
	Purchases float64   `bson:"purchases" json:"purchases"`
	Expenses  float64   `bson:"expenses" json:"expenses"`
	Net       float64   `bson:"net" json:"net"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
