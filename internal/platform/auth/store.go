package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	IsDisabled   bool
	CreatedAt    time.Time
}

type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Create(ctx context.Context, a *Account) error
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) AccountStore {
	return &Store{db: db}
}

// GetByEmail returns (nil, nil) when no account matches.
func (s *Store) GetByEmail(ctx context.Context, email string) (*Account, error) {
	const q = `
SELECT id, email, password_hash, role, is_disabled, created_at
FROM users
WHERE email = ?
LIMIT 1
`
	var a Account
	err := s.db.QueryRowContext(ctx, q, email).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.IsDisabled,
		&a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a and fills in the generated id.
func (s *Store) Create(ctx context.Context, a *Account) error {
	const q = `
INSERT INTO users (email, password_hash, role, is_disabled, created_at)
VALUES (?, ?, ?, 0, ?)
`
	res, err := s.db.ExecContext(ctx, q, a.Email, a.PasswordHash, a.Role, a.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}
