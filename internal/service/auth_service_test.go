package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/crudmaker/Bank-REST/internal/errs"
	"github.com/crudmaker/Bank-REST/internal/models"
)

func validRegistration() *models.UserRegistration {
	return &models.UserRegistration{
		Username:  "alice",
		OwnerName: "Alice Smith",
		Email:     "alice@example.com",
		Password:  "correct horse",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.deps)

	id, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp, err := svc.Login(context.Background(), &models.UserLogin{
		Username: "alice",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("empty token")
	}

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", token.Claims)
	}
	if got := int64(claims["user_id"].(float64)); got != id {
		t.Errorf("user_id claim = %d, want %d", got, id)
	}
	if claims["role"] != string(models.RoleUser) {
		t.Errorf("role claim = %v, want %s", claims["role"], models.RoleUser)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.deps)

	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	_, err := svc.Register(context.Background(), validRegistration())
	assertKindAndMessage(t, err, errs.Conflict, "Username is already taken.")
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.deps)

	cases := []struct {
		name   string
		mutate func(*models.UserRegistration)
	}{
		{"blank username", func(r *models.UserRegistration) { r.Username = "  " }},
		{"blank owner name", func(r *models.UserRegistration) { r.OwnerName = "" }},
		{"bad email", func(r *models.UserRegistration) { r.Email = "not-an-email" }},
		{"short password", func(r *models.UserRegistration) { r.Password = "short" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := validRegistration()
			tc.mutate(reg)
			_, err := svc.Register(context.Background(), reg)
			if kind := errs.KindOf(err); kind != errs.InvalidOperation {
				t.Errorf("error kind = %v, want InvalidOperation (err: %v)", kind, err)
			}
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.deps)

	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(context.Background(), &models.UserLogin{
		Username: "alice",
		Password: "wrong password",
	})
	assertKindAndMessage(t, err, errs.AccessDenied, "Invalid username or password.")
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.deps)

	_, err := svc.Login(context.Background(), &models.UserLogin{
		Username: "nobody",
		Password: "whatever",
	})
	assertKindAndMessage(t, err, errs.AccessDenied, "Invalid username or password.")
}

func TestLoginLockedUser(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.deps)

	id, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := env.users.UpdateLocked(context.Background(), id, true); err != nil {
		t.Fatalf("UpdateLocked: %v", err)
	}

	_, err = svc.Login(context.Background(), &models.UserLogin{
		Username: "alice",
		Password: "correct horse",
	})
	assertKindAndMessage(t, err, errs.AccessDenied, "User account is locked.")
}
