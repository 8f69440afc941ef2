package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/renthub/renthub/models/user_models"
	"github.com/renthub/renthub/repository"
)

// UserRepository is the PostgreSQL implementation of repository.UserStore.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, full_name, email, COALESCE(phone_number, ''), password, is_admin, COALESCE(admin_id, ''), is_blocked`

func scanUser(row pgx.Row) (*user_models.User, error) {
	u := &user_models.User{}
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PhoneNumber, &u.Password, &u.IsAdmin, &u.AdminID, &u.IsBlocked)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new account. Email uniqueness is enforced by the table's
// unique constraint and surfaced as ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, u *user_models.User) (*user_models.User, error) {
	query := `
		INSERT INTO users (full_name, email, phone_number, password, is_admin, admin_id, is_blocked)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7) RETURNING id`

	err := r.db.QueryRow(ctx, query,
		u.FullName, u.Email, u.PhoneNumber, u.Password, u.IsAdmin, u.AdminID, u.IsBlocked,
	).Scan(&u.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetByID fetches one account.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user_models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user %d: %w", id, err)
	}
	return u, nil
}

// GetByEmail fetches one account by its unique email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user_models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}
	return u, nil
}

// List returns every account.
func (r *UserRepository) List(ctx context.Context) ([]user_models.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user_models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Update overwrites an account record.
func (r *UserRepository) Update(ctx context.Context, u *user_models.User) error {
	query := `
		UPDATE users SET full_name = $2, email = $3, phone_number = $4, password = $5,
			is_admin = $6, admin_id = NULLIF($7, ''), is_blocked = $8
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, u.ID, u.FullName, u.Email, u.PhoneNumber, u.Password, u.IsAdmin, u.AdminID, u.IsBlocked)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update user %d: %w", u.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetBlocked flips the blocked flag.
func (r *UserRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET is_blocked = $2 WHERE id = $1`, id, blocked)
	if err != nil {
		return fmt.Errorf("failed to set blocked flag for user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an account.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
