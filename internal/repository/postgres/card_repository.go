package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/crudmaker/Bank-REST/internal/errs"
	"github.com/crudmaker/Bank-REST/internal/models"
	"github.com/crudmaker/Bank-REST/internal/repository"
)

const cardColumns = `id, owner_id, card_number_encrypted, expiry_date, status, balance, created_at, updated_at`

// uniqueViolation is the postgres error code for a unique constraint breach
const uniqueViolation = "23505"

// CardRepo is a PostgreSQL implementation of the repository.CardRepository interface
type CardRepo struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepo
func NewCardRepository(db *sql.DB) *CardRepo {
	return &CardRepo{db: db}
}

func scanCard(row interface{ Scan(...interface{}) error }) (*models.Card, error) {
	card := &models.Card{}
	var balance string
	err := row.Scan(
		&card.ID,
		&card.OwnerID,
		&card.NumberEncrypted,
		&card.ExpiryDate,
		&card.Status,
		&balance,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "invalid balance value in store", err)
	}

	return card, nil
}

// Create creates a new card
func (r *CardRepo) Create(ctx context.Context, card *models.Card) (int64, error) {
	query := `INSERT INTO cards (owner_id, card_number_encrypted, expiry_date, status, balance)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		query,
		card.OwnerID,
		card.NumberEncrypted,
		card.ExpiryDate,
		card.Status,
		card.Balance.String(),
	).Scan(&id)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, errs.New(errs.Conflict, "A card with this number already exists.")
		}
		return 0, errs.Wrap(errs.Internal, "failed to create card", err)
	}

	return id, nil
}

// GetByID gets a card by ID
func (r *CardRepo) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	card, err := scanCard(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.Newf(errs.NotFound, "Card with id %d not found.", id)
		}
		return nil, errs.Wrap(errs.Internal, "failed to get card", err)
	}

	return card, nil
}

// GetByOwner gets a page of cards for an owner, ordered by card id
func (r *CardRepo) GetByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE owner_id = $1 ORDER BY id LIMIT $2 OFFSET $3`
	return r.queryCards(ctx, query, ownerID, limit, offset)
}

// CountByOwner counts the cards belonging to an owner
func (r *CardRepo) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, errs.Wrap(errs.Internal, "failed to count cards", err)
	}
	return count, nil
}

// GetAll gets a page of all cards, ordered by card id
func (r *CardRepo) GetAll(ctx context.Context, limit, offset int) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards ORDER BY id LIMIT $1 OFFSET $2`
	return r.queryCards(ctx, query, limit, offset)
}

// CountAll counts all cards
func (r *CardRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&count)
	if err != nil {
		return 0, errs.Wrap(errs.Internal, "failed to count cards", err)
	}
	return count, nil
}

// GetExpiredActive gets all ACTIVE cards whose expiry date is before asOf
func (r *CardRepo) GetExpiredActive(ctx context.Context, asOf time.Time) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE status = $1 AND expiry_date < $2 ORDER BY id`
	return r.queryCards(ctx, query, models.CardStatusActive, asOf)
}

func (r *CardRepo) queryCards(ctx context.Context, query string, args ...interface{}) ([]*models.Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to get cards", err)
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, errs.Wrap(errs.Internal, "failed to scan card", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.Internal, "rows error", err)
	}

	return cards, nil
}

// UpdateStatus transitions a card's status, guarded by the expected
// current status so a concurrent writer cannot be silently overwritten
func (r *CardRepo) UpdateStatus(ctx context.Context, id int64, from, to models.CardStatus) error {
	query := `UPDATE cards SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to update card status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to get rows affected", err)
	}

	if rows == 0 {
		exists, err := r.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return errs.Newf(errs.NotFound, "Card with id %d not found.", id)
		}
		return errs.New(errs.Conflict, "Card status changed concurrently, retry the operation.")
	}

	return nil
}

// Delete removes a card
func (r *CardRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to delete card", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to get rows affected", err)
	}

	if rows == 0 {
		return errs.Newf(errs.NotFound, "Card with id %d not found.", id)
	}

	return nil
}

// Exists reports whether a card with the given id exists
func (r *CardRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM cards WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, errs.Wrap(errs.Internal, "failed to check card existence", err)
	}
	return exists, nil
}

// BeginTransfer starts a transfer unit of work backed by a SQL
// transaction. GetForUpdate takes row locks, so both cards stay isolated
// until Commit or Rollback.
func (r *CardRepo) BeginTransfer(ctx context.Context) (repository.TransferTx, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to begin transaction", err)
	}
	return &transferTx{tx: tx}, nil
}

type transferTx struct {
	tx *sql.Tx
}

// GetForUpdate reads a card under an exclusive row lock
func (t *transferTx) GetForUpdate(ctx context.Context, id int64) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1 FOR UPDATE`

	card, err := scanCard(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.Newf(errs.NotFound, "Card with id %d not found.", id)
		}
		return nil, errs.Wrap(errs.Internal, "failed to lock card", err)
	}

	return card, nil
}

// UpdateBalance sets a card's balance within the transaction
func (t *transferTx) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE cards SET balance = $1, updated_at = NOW() WHERE id = $2`,
		balance.String(), id)
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to update balance", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to get rows affected", err)
	}

	if rows == 0 {
		return errs.Newf(errs.NotFound, "Card with id %d not found.", id)
	}

	return nil
}

// Commit commits the transfer
func (t *transferTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return errs.Wrap(errs.Internal, "failed to commit transfer", err)
	}
	return nil
}

// Rollback aborts the transfer; rolling back after a commit is a no-op
func (t *transferTx) Rollback() error {
	err := t.tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return errs.Wrap(errs.Internal, "failed to roll back transfer", err)
	}
	return nil
}
