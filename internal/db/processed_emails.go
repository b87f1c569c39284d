package db

import (
	"context"
	"fmt"
)

// RecordProcessedEmail writes the audit row for one handled inbox message.
// Reprocessing the same message updates the existing row.
func (db *DB) RecordProcessedEmail(ctx context.Context, rec ProcessedEmail) error {
	var errText *string
	if rec.Error != "" {
		errText = &rec.Error
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO processed_emails (message_id, subject, sender, attachments_processed, candidates_created, status, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (message_id) DO UPDATE SET
		     processed_at = NOW(),
		     attachments_processed = EXCLUDED.attachments_processed,
		     candidates_created = EXCLUDED.candidates_created,
		     status = EXCLUDED.status,
		     error = EXCLUDED.error`,
		rec.MessageID, rec.Subject, rec.Sender, rec.AttachmentsProcessed,
		rec.CandidatesCreated, rec.Status, errText,
	)
	if err != nil {
		return fmt.Errorf("failed to record processed email: %w", err)
	}
	return nil
}

// GetProcessingStats aggregates the processed-email audit rows.
func (db *DB) GetProcessingStats(ctx context.Context) (*ProcessingStats, error) {
	var stats ProcessingStats
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(attachments_processed), 0),
		        COALESCE(SUM(candidates_created), 0),
		        COUNT(*) FILTER (WHERE status = 'failed'),
		        MAX(processed_at)
		 FROM processed_emails`,
	).Scan(&stats.TotalEmails, &stats.TotalAttachments, &stats.CandidatesCreated, &stats.Failed, &stats.LastProcessedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get processing stats: %w", err)
	}
	return &stats, nil
}

// ListProcessedEmails retrieves recent audit rows, newest first.
func (db *DB) ListProcessedEmails(ctx context.Context, limit int) ([]ProcessedEmail, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, message_id, subject, sender, processed_at, attachments_processed, candidates_created, status, COALESCE(error, '')
		 FROM processed_emails ORDER BY processed_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list processed emails: %w", err)
	}
	defer rows.Close()

	var records []ProcessedEmail
	for rows.Next() {
		var rec ProcessedEmail
		if err := rows.Scan(&rec.ID, &rec.MessageID, &rec.Subject, &rec.Sender, &rec.ProcessedAt,
			&rec.AttachmentsProcessed, &rec.CandidatesCreated, &rec.Status, &rec.Error); err != nil {
			return nil, fmt.Errorf("failed to scan processed email: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
