package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crudmaker/Bank-REST/internal/models"
)

// TransferTx is a unit of work for a two-leg balance movement. Cards read
// through GetForUpdate are isolated from concurrent writers until the
// transaction commits or rolls back; both balance updates become visible
// atomically on Commit. To avoid deadlock, callers must acquire cards in
// ascending id order.
type TransferTx interface {
	GetForUpdate(ctx context.Context, id int64) (*models.Card, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	Commit() error
	Rollback() error
}

// CardRepository defines methods for card storage
type CardRepository interface {
	Create(ctx context.Context, card *models.Card) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	GetByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Card, error)
	CountByOwner(ctx context.Context, ownerID int64) (int, error)
	GetAll(ctx context.Context, limit, offset int) ([]*models.Card, error)
	CountAll(ctx context.Context) (int, error)
	GetExpiredActive(ctx context.Context, asOf time.Time) ([]*models.Card, error)

	// UpdateStatus transitions a card's status only if the current status
	// still equals from; a lost race yields a Conflict error.
	UpdateStatus(ctx context.Context, id int64, from, to models.CardStatus) error

	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)

	BeginTransfer(ctx context.Context) (TransferTx, error)
}

// UserRepository defines methods for user storage
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetAll(ctx context.Context, limit, offset int) ([]*models.User, error)
	CountAll(ctx context.Context) (int, error)
	UpdateRole(ctx context.Context, id int64, role models.Role) error
	UpdateLocked(ctx context.Context, id int64, locked bool) error
}

// Repository is a composition of all repositories
type Repository struct {
	Card CardRepository
	User UserRepository
}
