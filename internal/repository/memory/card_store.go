// Package memory provides in-memory implementations of the repository
// interfaces, used in tests and local development without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crudmaker/Bank-REST/internal/errs"
	"github.com/crudmaker/Bank-REST/internal/models"
	"github.com/crudmaker/Bank-REST/internal/repository"
)

// CardStore is an in-memory implementation of the
// repository.CardRepository interface. A single mutex serializes every
// operation; a transfer transaction holds the mutex from BeginTransfer
// until Commit or Rollback, which gives transfers the same isolation the
// SQL store gets from row locks.
type CardStore struct {
	mu     sync.Mutex
	nextID int64
	cards  map[int64]*models.Card
}

// NewCardStore creates an empty CardStore
func NewCardStore() *CardStore {
	return &CardStore{
		nextID: 1,
		cards:  make(map[int64]*models.Card),
	}
}

func copyCard(c *models.Card) *models.Card {
	cp := *c
	return &cp
}

// Create creates a new card
func (s *CardStore) Create(ctx context.Context, card *models.Card) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.cards {
		if existing.NumberEncrypted == card.NumberEncrypted {
			return 0, errs.New(errs.Conflict, "A card with this number already exists.")
		}
	}

	id := s.nextID
	s.nextID++

	cp := copyCard(card)
	cp.ID = id
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	s.cards[id] = cp

	return id, nil
}

// GetByID gets a card by ID
func (s *CardStore) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, errs.Newf(errs.NotFound, "Card with id %d not found.", id)
	}
	return copyCard(card), nil
}

func (s *CardStore) sortedIDs() []int64 {
	ids := make([]int64, 0, len(s.cards))
	for id := range s.cards {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// GetByOwner gets a page of cards for an owner, ordered by card id
func (s *CardStore) GetByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cards []*models.Card
	for _, id := range s.sortedIDs() {
		if s.cards[id].OwnerID == ownerID {
			cards = append(cards, copyCard(s.cards[id]))
		}
	}
	return pageOf(cards, limit, offset), nil
}

// CountByOwner counts the cards belonging to an owner
func (s *CardStore) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, card := range s.cards {
		if card.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

// GetAll gets a page of all cards, ordered by card id
func (s *CardStore) GetAll(ctx context.Context, limit, offset int) ([]*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cards []*models.Card
	for _, id := range s.sortedIDs() {
		cards = append(cards, copyCard(s.cards[id]))
	}
	return pageOf(cards, limit, offset), nil
}

// CountAll counts all cards
func (s *CardStore) CountAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards), nil
}

func pageOf(cards []*models.Card, limit, offset int) []*models.Card {
	if offset >= len(cards) {
		return nil
	}
	cards = cards[offset:]
	if limit < len(cards) {
		cards = cards[:limit]
	}
	return cards
}

// GetExpiredActive gets all ACTIVE cards whose expiry date is before asOf
func (s *CardStore) GetExpiredActive(ctx context.Context, asOf time.Time) ([]*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cards []*models.Card
	for _, id := range s.sortedIDs() {
		card := s.cards[id]
		if card.Status == models.CardStatusActive && card.ExpiryDate.Before(asOf) {
			cards = append(cards, copyCard(card))
		}
	}
	return cards, nil
}

// UpdateStatus transitions a card's status, guarded by the expected
// current status
func (s *CardStore) UpdateStatus(ctx context.Context, id int64, from, to models.CardStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[id]
	if !ok {
		return errs.Newf(errs.NotFound, "Card with id %d not found.", id)
	}
	if card.Status != from {
		return errs.New(errs.Conflict, "Card status changed concurrently, retry the operation.")
	}

	card.Status = to
	card.UpdatedAt = time.Now()
	return nil
}

// Delete removes a card
func (s *CardStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return errs.Newf(errs.NotFound, "Card with id %d not found.", id)
	}
	delete(s.cards, id)
	return nil
}

// Exists reports whether a card with the given id exists
func (s *CardStore) Exists(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cards[id]
	return ok, nil
}

// BeginTransfer starts a transfer unit of work. The store mutex is held
// until Commit or Rollback, so no other operation can observe a
// single-leg state.
func (s *CardStore) BeginTransfer(ctx context.Context) (repository.TransferTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.Internal, "transfer aborted", err)
	}
	s.mu.Lock()
	return &transferTx{store: s, staged: make(map[int64]decimal.Decimal)}, nil
}

type transferTx struct {
	store  *CardStore
	staged map[int64]decimal.Decimal
	done   bool
}

// GetForUpdate reads a card inside the transaction
func (t *transferTx) GetForUpdate(ctx context.Context, id int64) (*models.Card, error) {
	card, ok := t.store.cards[id]
	if !ok {
		return nil, errs.Newf(errs.NotFound, "Card with id %d not found.", id)
	}
	return copyCard(card), nil
}

// UpdateBalance stages a balance update; nothing is visible until Commit
func (t *transferTx) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	if _, ok := t.store.cards[id]; !ok {
		return errs.Newf(errs.NotFound, "Card with id %d not found.", id)
	}
	t.staged[id] = balance
	return nil
}

// Commit applies all staged updates atomically
func (t *transferTx) Commit() error {
	if t.done {
		return errs.New(errs.Internal, "transfer already finished")
	}
	for id, balance := range t.staged {
		t.store.cards[id].Balance = balance
		t.store.cards[id].UpdatedAt = time.Now()
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

// Rollback discards staged updates; rolling back after a commit is a no-op
func (t *transferTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}
