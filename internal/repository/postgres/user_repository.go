package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/crudmaker/Bank-REST/internal/errs"
	"github.com/crudmaker/Bank-REST/internal/models"
)

const userColumns = `id, username, owner_name, email, password_hash, role, locked, created_at`

// UserRepo is a PostgreSQL implementation of the repository.UserRepository interface
type UserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepo
func NewUserRepository(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.OwnerName,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Locked,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create creates a new user
func (r *UserRepo) Create(ctx context.Context, user *models.User) (int64, error) {
	query := `INSERT INTO users (username, owner_name, email, password_hash, role, locked)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.OwnerName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Locked,
	).Scan(&id)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, errs.New(errs.Conflict, "Username is already taken.")
		}
		return 0, errs.Wrap(errs.Internal, "failed to create user", err)
	}

	return id, nil
}

// GetByID gets a user by ID
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.Newf(errs.NotFound, "User not found with id: %d", id)
		}
		return nil, errs.Wrap(errs.Internal, "failed to get user", err)
	}

	return user, nil
}

// GetByUsername gets a user by username
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.Newf(errs.NotFound, "User not found: %s", username)
		}
		return nil, errs.Wrap(errs.Internal, "failed to get user", err)
	}

	return user, nil
}

// GetAll gets a page of users, ordered by id
func (r *UserRepo) GetAll(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to get users", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, errs.Wrap(errs.Internal, "failed to scan user", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.Internal, "rows error", err)
	}

	return users, nil
}

// CountAll counts all users
func (r *UserRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, errs.Wrap(errs.Internal, "failed to count users", err)
	}
	return count, nil
}

// UpdateRole sets a user's role
func (r *UserRepo) UpdateRole(ctx context.Context, id int64, role models.Role) error {
	return r.exec(ctx, id, `UPDATE users SET role = $1 WHERE id = $2`, role, id)
}

// UpdateLocked sets a user's locked flag
func (r *UserRepo) UpdateLocked(ctx context.Context, id int64, locked bool) error {
	return r.exec(ctx, id, `UPDATE users SET locked = $1 WHERE id = $2`, locked, id)
}

func (r *UserRepo) exec(ctx context.Context, id int64, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to update user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to get rows affected", err)
	}

	if rows == 0 {
		return errs.Newf(errs.NotFound, "User not found with id: %d", id)
	}

	return nil
}
