// Package orders implements the order-transaction application procedure: it
// turns caller-submitted purchases and sales into durable transaction
// documents with embedded snapshots and computed totals, and keeps product
// inventory consistent with purchases. Multi-document writes run as one
// atomic unit when the store supports it.
package orders

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/osvalr/cantina/internal/auth"
	"github.com/osvalr/cantina/internal/domain/apperr"
	"github.com/osvalr/cantina/internal/domain/models"
	"github.com/osvalr/cantina/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Service executes the transaction procedures against the store resolved at
// startup; its capabilities decide whether atomic units are real transactions
// or best-effort sequences.
type Service struct {
	store  repository.Store
	logger *zap.Logger
}

// NewService wires the order-transaction service.
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

func parseID(hexID, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hexID))
	if err != nil {
		return primitive.NilObjectID, apperr.Newf(apperr.Validation, "invalid %s id %q", what, hexID)
	}
	return id, nil
}

// resolveDate parses an optional yyyy-mm-dd value, defaulting to today.
func resolveDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperr.Newf(apperr.Validation, "invalid date %q, want yyyy-mm-dd", value)
	}
	return t, nil
}

// resolveClock parses an optional hh:mm:ss value, defaulting to the current
// wall clock.
func resolveClock(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return time.Now().Format(timeLayout), nil
	}
	if _, err := time.Parse(timeLayout, strings.TrimSpace(value)); err != nil {
		return "", apperr.Newf(apperr.Validation, "invalid time %q, want hh:mm:ss", value)
	}
	return strings.TrimSpace(value), nil
}
