package services

import (
	"context"
	"errors"
	"testing"

	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories/memory"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(memory.NewUserRepository())
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Name:     "Alex",
		GamerTag: "alex99",
		Email:    "alex@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != models.RolePlayer {
		t.Fatalf("new users must be players, got %s", user.Role)
	}
	if user.PasswordHash != "" {
		t.Fatal("password hash leaked in response")
	}

	logged, err := svc.Login(ctx, LoginInput{Email: "alex@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("logged in as user %d, want %d", logged.ID, user.ID)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(memory.NewUserRepository())

	cases := []RegisterInput{
		{Name: "A", GamerTag: "a", Email: "not-an-email", Password: "longenough"},
		{Name: "A", GamerTag: "a", Email: "a@example.com", Password: "short"},
		{Name: "", GamerTag: "a", Email: "a@example.com", Password: "longenough"},
	}
	for i, input := range cases {
		if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("case %d: expected ErrValidationFailed, got %v", i, err)
		}
	}
}

func TestAuthService_DuplicateIdentity(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(memory.NewUserRepository())
	ctx := context.Background()

	base := RegisterInput{
		Name:     "Alex",
		GamerTag: "alex99",
		Email:    "alex@example.com",
		Password: "hunter2hunter2",
	}
	if _, err := svc.Register(ctx, base); err != nil {
		t.Fatalf("register: %v", err)
	}

	sameEmail := base
	sameEmail.GamerTag = "other"
	if _, err := svc.Register(ctx, sameEmail); !errors.Is(err, ErrAuthEmailTaken) {
		t.Fatalf("expected ErrAuthEmailTaken, got %v", err)
	}

	sameTag := base
	sameTag.Email = "other@example.com"
	if _, err := svc.Register(ctx, sameTag); !errors.Is(err, ErrAuthGamerTagTaken) {
		t.Fatalf("expected ErrAuthGamerTagTaken, got %v", err)
	}
}

func TestAuthService_LoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(memory.NewUserRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{
		Name:     "Alex",
		GamerTag: "alex99",
		Email:    "alex@example.com",
		Password: "hunter2hunter2",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "alex@example.com", Password: "wrongpassword"}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrAuthInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "hunter2hunter2"}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrAuthInvalidCredentials, got %v", err)
	}
}
