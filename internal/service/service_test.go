package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/crudmaker/Bank-REST/configs"
	"github.com/crudmaker/Bank-REST/internal/models"
	"github.com/crudmaker/Bank-REST/internal/repository"
	"github.com/crudmaker/Bank-REST/internal/repository/memory"
	"github.com/crudmaker/Bank-REST/pkg/crypto"
)

// noopEmail satisfies EmailService without sending anything
type noopEmail struct{}

func (noopEmail) SendTransferNotification(ctx context.Context, userID, fromCardID, toCardID int64, amount decimal.Decimal) error {
	return nil
}

type testEnv struct {
	deps  Dependencies
	cards *memory.CardStore
	users *memory.UserStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cipher, err := crypto.NewCardCipher([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewCardCipher: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cards := memory.NewCardStore()
	users := memory.NewUserStore()

	deps := Dependencies{
		Repos: &repository.Repository{
			Card: cards,
			User: users,
		},
		Logger: logger,
		Config: &configs.Config{
			JWT: configs.JWTConfig{Secret: "test-secret", TTL: 1},
		},
		Cipher: cipher,
		Masker: crypto.NewMasker(4, '*'),
	}

	return &testEnv{deps: deps, cards: cards, users: users}
}

func (e *testEnv) seedUser(t *testing.T, username, ownerName string) int64 {
	t.Helper()

	id, err := e.users.Create(context.Background(), &models.User{
		Username:     username,
		OwnerName:    ownerName,
		Email:        username + "@example.com",
		PasswordHash: "irrelevant",
		Role:         models.RoleUser,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return id
}

func (e *testEnv) seedCard(t *testing.T, ownerID int64, number, balance string, status models.CardStatus, expiry time.Time) int64 {
	t.Helper()

	encrypted, err := e.deps.Cipher.Encrypt(number)
	if err != nil {
		t.Fatalf("encrypt card number: %v", err)
	}

	id, err := e.cards.Create(context.Background(), &models.Card{
		OwnerID:         ownerID,
		NumberEncrypted: encrypted,
		ExpiryDate:      expiry,
		Status:          status,
		Balance:         decimal.RequireFromString(balance),
	})
	if err != nil {
		t.Fatalf("seed card %s: %v", number, err)
	}
	return id
}

func (e *testEnv) balance(t *testing.T, cardID int64) decimal.Decimal {
	t.Helper()

	card, err := e.cards.GetByID(context.Background(), cardID)
	if err != nil {
		t.Fatalf("get card %d: %v", cardID, err)
	}
	return card.Balance
}

func nextYear() time.Time {
	return time.Now().AddDate(1, 0, 0)
}

func yesterday() time.Time {
	return time.Now().AddDate(0, 0, -1)
}
