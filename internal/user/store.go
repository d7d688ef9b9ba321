package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Store defines the interface for user data operations.
type Store interface {
	Create(ctx context.Context, u *User, password string) error
	GetByID(ctx context.Context, id int64) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
}

// PostgresStore implements the Store interface for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore and makes sure the users table exists.
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		is_staff BOOLEAN NOT NULL DEFAULT FALSE
	)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the user's stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Create hashes the password and inserts the user, filling in its ID.
func (s *PostgresStore) Create(ctx context.Context, u *User, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash

	rows, err := s.db.NamedQueryContext(ctx, `
		INSERT INTO users (email, username, first_name, last_name, password_hash, is_staff)
		VALUES (:email, :username, :first_name, :last_name, :password_hash, :is_staff)
		RETURNING id`, u)
	if err != nil {
		return createError(err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&u.ID); err != nil {
			return fmt.Errorf("failed to read user id: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return createError(err)
	}
	return nil
}

func createError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	return fmt.Errorf("failed to create user: %w", err)
}

// GetByID returns nil without an error when the user does not exist.
func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// Authenticate looks the user up by email and checks the password.
func (s *PostgresStore) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, "SELECT * FROM users WHERE email = $1", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !u.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}
