package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/crudmaker/Bank-REST/internal/errs"
	"github.com/crudmaker/Bank-REST/internal/models"
)

func TestAdminCreateCard(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.deps)

	owner := env.seedUser(t, "alice", "Alice Smith")

	resp, err := svc.CreateCard(context.Background(), &models.CardCreate{
		UserID:         owner,
		CardNumber:     "4111111111111111",
		ExpiryDate:     nextYear(),
		InitialBalance: decimal.RequireFromString("250.00"),
	})
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}

	if resp.MaskedCardNumber != "**** **** **** 1111" {
		t.Errorf("masked number = %q, want \"**** **** **** 1111\"", resp.MaskedCardNumber)
	}
	if resp.Status != models.CardStatusActive {
		t.Errorf("status = %s, want ACTIVE", resp.Status)
	}
	if resp.OwnerName != "Alice Smith" {
		t.Errorf("owner name = %q, want \"Alice Smith\"", resp.OwnerName)
	}
	if !resp.Balance.Equal(decimal.RequireFromString("250.00")) {
		t.Errorf("balance = %s, want 250.00", resp.Balance)
	}
}

func TestAdminCreateCardValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.deps)

	owner := env.seedUser(t, "alice", "Alice Smith")

	cases := []struct {
		name string
		req  models.CardCreate
	}{
		{
			name: "bad luhn check digit",
			req: models.CardCreate{
				UserID:     owner,
				CardNumber: "4111111111111112",
				ExpiryDate: nextYear(),
			},
		},
		{
			name: "too short",
			req: models.CardCreate{
				UserID:     owner,
				CardNumber: "411111111111",
				ExpiryDate: nextYear(),
			},
		},
		{
			name: "non digits",
			req: models.CardCreate{
				UserID:     owner,
				CardNumber: "4111-1111-1111-1111",
				ExpiryDate: nextYear(),
			},
		},
		{
			name: "past expiry",
			req: models.CardCreate{
				UserID:     owner,
				CardNumber: "4111111111111111",
				ExpiryDate: yesterday(),
			},
		},
		{
			name: "negative balance",
			req: models.CardCreate{
				UserID:         owner,
				CardNumber:     "4111111111111111",
				ExpiryDate:     nextYear(),
				InitialBalance: decimal.RequireFromString("-1"),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateCard(context.Background(), &tc.req)
			if kind := errs.KindOf(err); kind != errs.InvalidOperation {
				t.Errorf("error kind = %v, want InvalidOperation (err: %v)", kind, err)
			}
		})
	}
}

func TestAdminCreateCardDuplicateNumber(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.deps)

	owner := env.seedUser(t, "alice", "Alice Smith")
	req := &models.CardCreate{
		UserID:     owner,
		CardNumber: "4111111111111111",
		ExpiryDate: nextYear(),
	}

	if _, err := svc.CreateCard(context.Background(), req); err != nil {
		t.Fatalf("first CreateCard: %v", err)
	}

	_, err := svc.CreateCard(context.Background(), req)
	assertKindAndMessage(t, err, errs.Conflict, "A card with this number already exists.")
}

func TestAdminCreateCardUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.deps)

	_, err := svc.CreateCard(context.Background(), &models.CardCreate{
		UserID:     99,
		CardNumber: "4111111111111111",
		ExpiryDate: nextYear(),
	})
	if kind := errs.KindOf(err); kind != errs.NotFound {
		t.Errorf("error kind = %v, want NotFound (err: %v)", kind, err)
	}
}

func TestAdminUpdateCardStatus(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.deps)

	owner := env.seedUser(t, "alice", "Alice Smith")
	cardID := env.seedCard(t, owner, "4111111111111111", "100.00", models.CardStatusActive, nextYear())

	resp, err := svc.UpdateCardStatus(context.Background(), cardID, models.CardStatusBlocked)
	if err != nil {
		t.Fatalf("UpdateCardStatus: %v", err)
	}
	if resp.Status != models.CardStatusBlocked {
		t.Errorf("status = %s, want BLOCKED", resp.Status)
	}

	// setting the current status again is a no-op
	resp, err = svc.UpdateCardStatus(context.Background(), cardID, models.CardStatusBlocked)
	if err != nil {
		t.Fatalf("repeat UpdateCardStatus: %v", err)
	}
	if resp.Status != models.CardStatusBlocked {
		t.Errorf("status = %s, want BLOCKED", resp.Status)
	}
}

func TestAdminCannotReactivateCard(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.deps)

	owner := env.seedUser(t, "alice", "Alice Smith")

	blocked := env.seedCard(t, owner, "4111111111111111", "100.00", models.CardStatusBlocked, nextYear())
	_, err := svc.UpdateCardStatus(context.Background(), blocked, models.CardStatusActive)
	assertKindAndMessage(t, err, errs.InvalidOperation, "A BLOCKED card cannot be reactivated.")

	expired := env.seedCard(t, owner, "4242424242424242", "100.00", models.CardStatusExpired, yesterday())
	_, err = svc.UpdateCardStatus(context.Background(), expired, models.CardStatusActive)
	assertKindAndMessage(t, err, errs.InvalidOperation, "A EXPIRED card cannot be reactivated.")
}

func TestAdminUpdateCardStatusRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.deps)

	owner := env.seedUser(t, "alice", "Alice Smith")
	cardID := env.seedCard(t, owner, "4111111111111111", "100.00", models.CardStatusActive, nextYear())

	_, err := svc.UpdateCardStatus(context.Background(), cardID, models.CardStatus("FROZEN"))
	if kind := errs.KindOf(err); kind != errs.InvalidOperation {
		t.Errorf("error kind = %v, want InvalidOperation (err: %v)", kind, err)
	}
}

func TestAdminDeleteCard(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.deps)

	owner := env.seedUser(t, "alice", "Alice Smith")
	cardID := env.seedCard(t, owner, "4111111111111111", "100.00", models.CardStatusActive, nextYear())

	if err := svc.DeleteCard(context.Background(), cardID); err != nil {
		t.Fatalf("DeleteCard: %v", err)
	}

	err := svc.DeleteCard(context.Background(), cardID)
	assertKindAndMessage(t, err, errs.NotFound, fmt.Sprintf("Card not found with id: %d", cardID))
}

func TestAdminGetAllCards(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.deps)

	alice := env.seedUser(t, "alice", "Alice Smith")
	bob := env.seedUser(t, "bob", "Bob Jones")
	env.seedCard(t, alice, "4111111111111111", "100.00", models.CardStatusActive, nextYear())
	env.seedCard(t, bob, "4242424242424242", "50.00", models.CardStatusActive, nextYear())

	page, err := svc.GetAllCards(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("GetAllCards: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("got %d items, total %d, want 2 and 2", len(page.Items), page.Total)
	}
	if page.Items[0].OwnerName != "Alice Smith" || page.Items[1].OwnerName != "Bob Jones" {
		t.Errorf("owner names = %q, %q", page.Items[0].OwnerName, page.Items[1].OwnerName)
	}
}
