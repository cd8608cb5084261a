package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"loungepos/internal/store/memory"
)

func newAuthFixture() *Service {
	tokens := NewTokenService("test-secret", time.Minute)
	return NewService(memory.New(), NewBcryptHasher(4), tokens, zap.NewNop())
}

func TestSignupAndLogin(t *testing.T) {
	svc := newAuthFixture()
	ctx := context.Background()

	operator, err := svc.Signup(ctx, "Till@Lounge.KE ", "hunter2", "")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if operator.Email != "till@lounge.ke" {
		t.Fatalf("expected normalized email, got %q", operator.Email)
	}
	if operator.Role != "operator" {
		t.Fatalf("expected default role, got %q", operator.Role)
	}

	token, _, err := svc.Login(ctx, "till@lounge.ke", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "till@lounge.ke", "hunter2", ""); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(ctx, "till@lounge.ke", "other", ""); !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "till@lounge.ke", "hunter2", ""); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, _, err := svc.Login(ctx, "till@lounge.ke", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@lounge.ke", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Minute)

	signed, err := tokens.GenerateToken(7, "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := tokens.ValidateToken(signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.OperatorID != 7 || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	signed, err := NewTokenService("secret-a", time.Minute).GenerateToken(1, "operator")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewTokenService("secret-b", time.Minute).ValidateToken(signed); err == nil {
		t.Fatal("expected validation failure under a different secret")
	}
}
