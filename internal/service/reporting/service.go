// Package reporting aggregates transaction totals over date ranges and builds
// the daily summary documents the scheduler persists each night.
package reporting

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/osvalr/cantina/internal/auth"
	"github.com/osvalr/cantina/internal/domain/apperr"
	"github.com/osvalr/cantina/internal/domain/models"
	"github.com/osvalr/cantina/internal/repository"
)

const dateLayout = "2006-01-02"

type Service struct {
	store  repository.Store
	logger *zap.Logger
}

func NewService(store repository.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

func requireOp(op auth.Operation, actor models.Identity) error {
	if !auth.Authorize(op, actor.Role) {
		return apperr.Newf(apperr.Forbidden, "role %s may not perform %s", actor.Role, op)
	}
	return nil
}

// parseRange turns optional yyyy-mm-dd bounds into an inclusive interval. An
// empty from means the beginning of time; an empty to means now. The upper
// bound is extended to the end of its day so a single-day range covers the
// whole day.
func parseRange(fromValue, toValue string) (time.Time, time.Time, error) {
	var from, to time.Time
	if fromValue != "" {
		t, err := time.Parse(dateLayout, fromValue)
		if err != nil {
			return from, to, apperr.Newf(apperr.Validation, "invalid from date %q, want yyyy-mm-dd", fromValue)
		}
		from = t
	}
	if toValue == "" {
		to = time.Now()
	} else {
		t, err := time.Parse(dateLayout, toValue)
		if err != nil {
			return from, to, apperr.Newf(apperr.Validation, "invalid to date %q, want yyyy-mm-dd", toValue)
		}
		to = t.Add(24*time.Hour - time.Nanosecond)
	}
	if !from.IsZero() && to.Before(from) {
		return from, to, apperr.New(apperr.Validation, "to date precedes from date")
	}
	return from, to, nil
}

// SalesTotal sums sale totals inside the range.
func (s *Service) SalesTotal(ctx context.Context, actor models.Identity, fromValue, toValue string) (float64, error) {
	if err := requireOp(auth.OpReadSales, actor); err != nil {
		return 0, err
	}
	from, to, err := parseRange(fromValue, toValue)
	if err != nil {
		return 0, err
	}
	return s.store.Sales().SumTotals(ctx, from, to)
}

// PurchasesTotal sums purchase totals inside the range.
func (s *Service) PurchasesTotal(ctx context.Context, actor models.Identity, fromValue, toValue string) (float64, error) {
	if err := requireOp(auth.OpReadPurchases, actor); err != nil {
		return 0, err
	}
	from, to, err := parseRange(fromValue, toValue)
	if err != nil {
		return 0, err
	}
	return s.store.Purchases().SumTotals(ctx, from, to)
}

// ExpensesTotal sums expense totals inside the range.
func (s *Service) ExpensesTotal(ctx context.Context, actor models.Identity, fromValue, toValue string) (float64, error) {
	if err := requireOp(auth.OpReadExpenses, actor); err != nil {
		return 0, err
	}
	from, to, err := parseRange(fromValue, toValue)
	if err != nil {
		return 0, err
	}
	return s.store.Expenses().SumTotals(ctx, from, to)
}

// Summary returns the three totals and the net for a range in one call.
func (s *Service) Summary(ctx context.Context, actor models.Identity, fromValue, toValue string) (*models.DailySummary, error) {
	if err := requireOp(auth.OpReadReports, actor); err != nil {
		return nil, err
	}
	from, to, err := parseRange(fromValue, toValue)
	if err != nil {
		return nil, err
	}
	return s.buildSummary(ctx, from, to)
}

// RunDaily computes yesterday's summary and persists it. The scheduler calls
// this without an actor; there is no authorization gate.
func (s *Service) RunDaily(ctx context.Context) (*models.DailySummary, error) {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	from := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, now.Location())
	to := from.Add(24*time.Hour - time.Nanosecond)

	summary, err := s.buildSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if err := s.store.Summaries().Insert(ctx, summary); err != nil {
		return nil, err
	}

	s.logger.Info("daily summary stored",
		zap.String("day", from.Format(dateLayout)),
		zap.Float64("sales", summary.Sales),
		zap.Float64("purchases", summary.Purchases),
		zap.Float64("expenses", summary.Expenses),
		zap.Float64("net", summary.Net))
	return summary, nil
}

func (s *Service) buildSummary(ctx context.Context, from, to time.Time) (*models.DailySummary, error) {
	sales, err := s.store.Sales().SumTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	purchases, err := s.store.Purchases().SumTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.Expenses().SumTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &models.DailySummary{
		From:      from,
		To:        to,
		Sales:     sales,
		Purchases: purchases,
		Expenses:  expenses,
		Net:       sales - purchases - expenses,
		CreatedAt: time.Now(),
	}, nil
}
