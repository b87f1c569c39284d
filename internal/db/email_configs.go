package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetActiveEmailConfig retrieves the active mailbox configuration, or nil
// when none is stored.
func (db *DB) GetActiveEmailConfig(ctx context.Context) (*EmailConfig, error) {
	var c EmailConfig
	err := db.pool.QueryRow(ctx,
		`SELECT id, host, port, username, password, use_tls, enabled, interval_minutes, last_checked, is_active
		 FROM email_configs WHERE is_active LIMIT 1`,
	).Scan(&c.ID, &c.Host, &c.Port, &c.Username, &c.Password, &c.UseTLS, &c.Enabled, &c.IntervalMinutes, &c.LastChecked, &c.IsActive)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get email config: %w", err)
	}
	return &c, nil
}

// SaveEmailConfig replaces the active mailbox configuration. Any previous
// active row is deactivated so a single active row remains.
func (db *DB) SaveEmailConfig(ctx context.Context, c EmailConfig) (*EmailConfig, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE email_configs SET is_active = FALSE WHERE is_active`); err != nil {
		return nil, fmt.Errorf("failed to deactivate email configs: %w", err)
	}

	saved := c
	err = tx.QueryRow(ctx,
		`INSERT INTO email_configs (host, port, username, password, use_tls, enabled, interval_minutes, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		 RETURNING id`,
		c.Host, c.Port, c.Username, c.Password, c.UseTLS, c.Enabled, c.IntervalMinutes,
	).Scan(&saved.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to save email config: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit email config: %w", err)
	}

	saved.IsActive = true
	return &saved, nil
}

// TouchEmailConfig records when the mailbox was last polled.
func (db *DB) TouchEmailConfig(ctx context.Context) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE email_configs SET last_checked = NOW() WHERE is_active`)
	if err != nil {
		return fmt.Errorf("failed to touch email config: %w", err)
	}
	return nil
}
