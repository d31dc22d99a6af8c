package service

import (
	"context"
	"testing"

	"github.com/crudmaker/Bank-REST/internal/errs"
	"github.com/crudmaker/Bank-REST/internal/models"
)

func TestBlockCardSucceedsThenFails(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCardService(env.deps)

	owner := env.seedUser(t, "alice", "Alice Smith")
	cardID := env.seedCard(t, owner, "4111111111111111", "100.00", models.CardStatusActive, nextYear())

	card, err := svc.BlockCard(context.Background(), cardID, owner)
	if err != nil {
		t.Fatalf("first BlockCard: %v", err)
	}
	if card.Status != models.CardStatusBlocked {
		t.Errorf("status after block = %s, want BLOCKED", card.Status)
	}

	_, err = svc.BlockCard(context.Background(), cardID, owner)
	assertKindAndMessage(t, err, errs.InvalidOperation, "Card is already blocked.")
}

func TestBlockCardNotFound(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCardService(env.deps)

	owner := env.seedUser(t, "alice", "Alice Smith")

	_, err := svc.BlockCard(context.Background(), 42, owner)
	if kind := errs.KindOf(err); kind != errs.NotFound {
		t.Fatalf("error kind = %v, want NotFound (err: %v)", kind, err)
	}
}

func TestBlockCardAccessDenied(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCardService(env.deps)

	alice := env.seedUser(t, "alice", "Alice Smith")
	bob := env.seedUser(t, "bob", "Bob Jones")
	cardID := env.seedCard(t, alice, "4111111111111111", "100.00", models.CardStatusActive, nextYear())

	_, err := svc.BlockCard(context.Background(), cardID, bob)
	assertKindAndMessage(t, err, errs.AccessDenied, "Access denied. You are not the owner of this card.")

	card, err := env.cards.GetByID(context.Background(), cardID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if card.Status != models.CardStatusActive {
		t.Errorf("status = %s, want ACTIVE", card.Status)
	}
}

func TestGetUserCardsMasksNumbers(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCardService(env.deps)

	owner := env.seedUser(t, "alice", "Alice Smith")
	env.seedCard(t, owner, "1234567812345678", "100.00", models.CardStatusActive, nextYear())
	env.seedCard(t, owner, "4242424242424242", "50.00", models.CardStatusActive, nextYear())

	other := env.seedUser(t, "bob", "Bob Jones")
	env.seedCard(t, other, "4111111111111111", "10.00", models.CardStatusActive, nextYear())

	page, err := svc.GetUserCards(context.Background(), owner, 1, 10)
	if err != nil {
		t.Fatalf("GetUserCards: %v", err)
	}

	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("got %d items, total %d, want 2 and 2", len(page.Items), page.Total)
	}

	first := page.Items[0]
	if first.MaskedCardNumber != "**** **** **** 5678" {
		t.Errorf("masked number = %q, want \"**** **** **** 5678\"", first.MaskedCardNumber)
	}
	if first.OwnerName != "Alice Smith" {
		t.Errorf("owner name = %q, want \"Alice Smith\"", first.OwnerName)
	}
}

func TestGetUserCardsPagingIsDeterministic(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCardService(env.deps)

	owner := env.seedUser(t, "alice", "Alice Smith")
	numbers := []string{
		"4111111111111111",
		"4242424242424242",
		"1234567812345678",
	}
	for _, n := range numbers {
		env.seedCard(t, owner, n, "10.00", models.CardStatusActive, nextYear())
	}

	first, err := svc.GetUserCards(context.Background(), owner, 1, 2)
	if err != nil {
		t.Fatalf("GetUserCards page 1: %v", err)
	}
	again, err := svc.GetUserCards(context.Background(), owner, 1, 2)
	if err != nil {
		t.Fatalf("GetUserCards page 1 again: %v", err)
	}

	if len(first.Items) != 2 || len(again.Items) != 2 {
		t.Fatalf("page sizes: %d and %d, want 2", len(first.Items), len(again.Items))
	}
	for i := range first.Items {
		if first.Items[i].ID != again.Items[i].ID {
			t.Errorf("page not stable at %d: %d vs %d", i, first.Items[i].ID, again.Items[i].ID)
		}
	}

	second, err := svc.GetUserCards(context.Background(), owner, 2, 2)
	if err != nil {
		t.Fatalf("GetUserCards page 2: %v", err)
	}
	if len(second.Items) != 1 {
		t.Fatalf("page 2 size = %d, want 1", len(second.Items))
	}
	if second.Items[0].ID == first.Items[0].ID || second.Items[0].ID == first.Items[1].ID {
		t.Error("page 2 repeats a card from page 1")
	}
}
