package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"loungepos/internal/models"
	"loungepos/internal/store"
)

var (
	// ErrEmailInUse is returned when registering a duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// Service contains operator registration and login logic.
type Service struct {
	store     store.Store
	hasher    Hasher
	tokenizer *TokenService
	logger    *zap.Logger
}

// NewService builds Service.
func NewService(st store.Store, hasher Hasher, tokenizer *TokenService, logger *zap.Logger) *Service {
	return &Service{
		store:     st,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// Signup registers a new operator.
func (s *Service) Signup(ctx context.Context, email, password, role string) (*models.Operator, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("auth: email required")
	}
	if password == "" {
		return nil, errors.New("auth: password required")
	}
	if role == "" {
		role = "operator"
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	operator := &models.Operator{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.store.CreateOperator(ctx, operator); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	s.logger.Info("operator signed up", zap.Int64("operator_id", operator.ID), zap.String("email", operator.Email))
	return operator, nil
}

// Login authenticates an operator and produces a JWT.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.Operator, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	operator, err := s.store.GetOperatorByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(operator.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenizer.GenerateToken(operator.ID, operator.Role)
	if err != nil {
		return "", nil, err
	}

	return token, operator, nil
}
