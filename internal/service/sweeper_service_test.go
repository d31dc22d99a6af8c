package service

import (
	"context"
	"testing"
	"time"

	"github.com/crudmaker/Bank-REST/internal/models"
)

func TestSweeperExpiresOnlyPastDueCards(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSweeperService(env.deps)

	owner := env.seedUser(t, "alice", "Alice Smith")
	expired := env.seedCard(t, owner, "4111111111111111", "100.00", models.CardStatusActive, yesterday())
	current := env.seedCard(t, owner, "4242424242424242", "50.00", models.CardStatusActive, nextYear())

	count, err := svc.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if count != 1 {
		t.Errorf("expired count = %d, want 1", count)
	}

	card, err := env.cards.GetByID(context.Background(), expired)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if card.Status != models.CardStatusExpired {
		t.Errorf("past-due card status = %s, want EXPIRED", card.Status)
	}

	card, err = env.cards.GetByID(context.Background(), current)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if card.Status != models.CardStatusActive {
		t.Errorf("current card status = %s, want ACTIVE", card.Status)
	}
}

func TestSweeperSkipsBlockedCards(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSweeperService(env.deps)

	owner := env.seedUser(t, "alice", "Alice Smith")
	blocked := env.seedCard(t, owner, "4111111111111111", "100.00", models.CardStatusBlocked, yesterday())

	count, err := svc.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if count != 0 {
		t.Errorf("expired count = %d, want 0", count)
	}

	card, err := env.cards.GetByID(context.Background(), blocked)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if card.Status != models.CardStatusBlocked {
		t.Errorf("blocked card status = %s, want BLOCKED", card.Status)
	}
}

func TestSweeperNoExpiredCardsIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSweeperService(env.deps)

	owner := env.seedUser(t, "alice", "Alice Smith")
	env.seedCard(t, owner, "4111111111111111", "100.00", models.CardStatusActive, nextYear())

	count, err := svc.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if count != 0 {
		t.Errorf("expired count = %d, want 0", count)
	}
}

func TestSweeperIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSweeperService(env.deps)

	owner := env.seedUser(t, "alice", "Alice Smith")
	env.seedCard(t, owner, "4111111111111111", "100.00", models.CardStatusActive, yesterday())

	if _, err := svc.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	count, err := svc.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if count != 0 {
		t.Errorf("second run count = %d, want 0", count)
	}
}
