package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cocktail-odyssey/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const (
	insertUserSQL        = `INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)`
	selectUserByEmailSQL = `SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE email = ?`
	selectUserByIDSQL    = `SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE id = ?`
)

// Create inserts a new user and returns its ID.
func (r *UserRepository) Create(ctx context.Context, name, email, passwordHash string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, name, email, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", email, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", email, err)
	}
	return int(lastID), nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := r.scanUser(r.db.QueryRowContext(ctx, selectUserByEmailSQL, email))
	if err != nil {
		return nil, fmt.Errorf("select user by email %q: %w", email, err)
	}
	return u, nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := r.scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
