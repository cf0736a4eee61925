// Package auth implements account registration, login and identity lookup on
// top of the user repository and the token manager.
package auth

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	authn "github.com/osvalr/cantina/internal/auth"
	"github.com/osvalr/cantina/internal/domain/apperr"
	"github.com/osvalr/cantina/internal/domain/models"
	"github.com/osvalr/cantina/internal/repository"
)

type Service struct {
	store  repository.Store
	tokens *authn.TokenManager
	logger *zap.Logger
}

func NewService(store repository.Store, tokens *authn.TokenManager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, tokens: tokens, logger: logger}
}

// Register creates an account. Emails are stored lowercase and must be
// unique; an omitted role defaults to cashier.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.New(apperr.Validation, "name must not be empty")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apperr.New(apperr.Validation, "email must not be empty")
	}
	if len(req.Password) < 6 {
		return nil, apperr.New(apperr.Validation, "password must be at least 6 characters")
	}

	role := req.Role
	if role == "" {
		role = models.RoleCashier
	}
	if !role.Valid() {
		return nil, apperr.Newf(apperr.Validation, "invalid role %q", role)
	}

	existing, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Newf(apperr.Conflict, "email %s is already registered", email)
	}

	hash, err := authn.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Users().Insert(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("id", user.ID.Hex()),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))
	return user, nil
}

// Login verifies credentials and issues a bearer token. An unknown email, an
// inactive account and a wrong password all produce the same answer so the
// response does not reveal which accounts exist.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active || !authn.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperr.New(apperr.Unauthenticated, "invalid credentials")
	}

	token, err := s.tokens.Issue(*user)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "sign token", err)
	}

	now := time.Now()
	if err := s.store.Users().UpdateLastAccess(ctx, user.ID, now); err != nil {
		s.logger.Warn("record last access", zap.String("id", user.ID.Hex()), zap.Error(err))
	}
	user.LastAccessAt = &now

	s.logger.Info("user logged in", zap.String("email", user.Email))
	return &models.LoginResponse{Message: "login successful", Token: token, User: *user}, nil
}

// CurrentUser resolves the account behind a verified identity. A token that
// outlives its account (deleted or deactivated) yields not-found.
func (s *Service) CurrentUser(ctx context.Context, actor models.Identity) (*models.User, error) {
	id, err := parseID(actor.UserID)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, apperr.New(apperr.NotFound, "account no longer available")
	}
	return user, nil
}

func parseID(hexID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hexID))
	if err != nil {
		return primitive.NilObjectID, apperr.Newf(apperr.Validation, "invalid user id %q", hexID)
	}
	return id, nil
}
