// Package catalog manages the reference data transactions point at:
// suppliers, products, dishes, pay grades and employees. Write operations
// enforce the policy table, uniqueness and dependent-delete rules before any
// document is touched.
package catalog

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/osvalr/cantina/internal/auth"
	"github.com/osvalr/cantina/internal/domain/apperr"
	"github.com/osvalr/cantina/internal/domain/models"
	"github.com/osvalr/cantina/internal/repository"
)

// Service exposes the reference-data operations.
type Service struct {
	store  repository.Store
	logger *zap.Logger
}

// NewService wires a catalog service instance.
func NewService(store repository.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

var emailRx = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// NormalizeName canonicalizes a display name: trimmed, first rune upper, rest
// lower. Supplier uniqueness is checked against this form.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func parseID(hexID, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hexID))
	if err != nil {
		return primitive.NilObjectID, apperr.Newf(apperr.Validation, "invalid %s id %q", what, hexID)
	}
	return id, nil
}

func validEmail(email string) error {
	if email != "" && !emailRx.MatchString(email) {
		return apperr.Newf(apperr.Validation, "invalid email %q", email)
	}
	return nil
}

func requireOp(op auth.Operation, actor models.Identity) error {
	if !auth.Authorize(op, actor.Role) {
		return apperr.Newf(apperr.Forbidden, "role %s may not perform %s", actor.Role, op)
	}
	return nil
}
