package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetUser retrieves a user by ID. Returns nil when not found.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := db.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, email, role, department, position, is_active, created_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role, &u.Department, &u.Position, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// FirstHRUser returns the oldest active HR user, or nil when none exists.
// Screening summaries are addressed to this user.
func (db *DB) FirstHRUser(ctx context.Context) (*User, error) {
	var u User
	err := db.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, email, role, department, position, is_active, created_at
		 FROM users WHERE role = 'hr' AND is_active ORDER BY created_at ASC LIMIT 1`,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role, &u.Department, &u.Position, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get HR user: %w", err)
	}
	return &u, nil
}
