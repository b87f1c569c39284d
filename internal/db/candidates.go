package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const candidateColumns = `id, first_name, last_name, email, phone, position, resume_url,
	cover_letter, status, ai_score, skills, experience, education, strengths,
	weaknesses, recommendation, summary, applied_at, created_at, updated_at`

func scanCandidate(row pgx.Row) (*Candidate, error) {
	var c Candidate
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Position,
		&c.ResumeURL, &c.CoverLetter, &c.Status, &c.AIScore, &c.Skills,
		&c.Experience, &c.Education, &c.Strengths, &c.Weaknesses,
		&c.Recommendation, &c.Summary, &c.AppliedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCandidate inserts a new candidate record and returns its ID.
// Status defaults to "applied" when not set.
func (db *DB) CreateCandidate(ctx context.Context, data CandidateData) (uuid.UUID, error) {
	status := data.Status
	if status == "" {
		status = StatusApplied
	}
	if !ValidStatus(status) {
		return uuid.Nil, fmt.Errorf("invalid candidate status: %s", status)
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO candidates (first_name, last_name, email, phone, position,
		     resume_url, cover_letter, status, ai_score, skills, experience,
		     education, strengths, weaknesses, recommendation, summary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id`,
		data.FirstName, data.LastName, data.Email, data.Phone, data.Position,
		data.ResumeURL, data.CoverLetter, status, data.AIScore,
		emptyIfNil(data.Skills), data.Experience, data.Education,
		emptyIfNil(data.Strengths), emptyIfNil(data.Weaknesses),
		data.Recommendation, data.Summary,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create candidate: %w", err)
	}
	return id, nil
}

// UpsertCandidateByEmail inserts a candidate or, when the email already
// exists, replaces the application fields in place. The existing row keeps
// its id; status is forced to "screening" and applied_at is reset so a
// re-application restarts the pipeline.
func (db *DB) UpsertCandidateByEmail(ctx context.Context, data CandidateData) (*UpsertResult, error) {
	var result UpsertResult
	var inserted bool
	// xmax = 0 only holds for freshly inserted rows, which distinguishes
	// the insert path from the conflict-update path.
	err := db.pool.QueryRow(ctx,
		`INSERT INTO candidates (first_name, last_name, email, phone, position,
		     resume_url, cover_letter, status, ai_score, skills, experience,
		     education, strengths, weaknesses, recommendation, summary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 'screening', $8, $9, $10, $11, $12, $13, $14, $15)
		 ON CONFLICT (email) DO UPDATE SET
		     first_name = EXCLUDED.first_name,
		     last_name = EXCLUDED.last_name,
		     phone = EXCLUDED.phone,
		     position = EXCLUDED.position,
		     resume_url = EXCLUDED.resume_url,
		     cover_letter = EXCLUDED.cover_letter,
		     status = 'screening',
		     ai_score = EXCLUDED.ai_score,
		     skills = EXCLUDED.skills,
		     experience = EXCLUDED.experience,
		     education = EXCLUDED.education,
		     strengths = EXCLUDED.strengths,
		     weaknesses = EXCLUDED.weaknesses,
		     recommendation = EXCLUDED.recommendation,
		     summary = EXCLUDED.summary,
		     applied_at = NOW(),
		     updated_at = NOW()
		 RETURNING id, (xmax = 0)`,
		data.FirstName, data.LastName, data.Email, data.Phone, data.Position,
		data.ResumeURL, data.CoverLetter, data.AIScore,
		emptyIfNil(data.Skills), data.Experience, data.Education,
		emptyIfNil(data.Strengths), emptyIfNil(data.Weaknesses),
		data.Recommendation, data.Summary,
	).Scan(&result.ID, &inserted)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert candidate %s: %w", data.Email, err)
	}

	result.Action = "updated"
	if inserted {
		result.Action = "created"
	}
	return &result, nil
}

// GetCandidate retrieves a candidate by ID. Returns nil when not found.
func (db *DB) GetCandidate(ctx context.Context, id uuid.UUID) (*Candidate, error) {
	c, err := scanCandidate(db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

// GetCandidateByEmail retrieves a candidate by email. Returns nil when not found.
func (db *DB) GetCandidateByEmail(ctx context.Context, email string) (*Candidate, error) {
	c, err := scanCandidate(db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE email = $1`, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate by email: %w", err)
	}
	return c, nil
}

// ListCandidates retrieves candidates with optional filters, newest first.
func (db *DB) ListCandidates(ctx context.Context, filters CandidateFilters) ([]Candidate, error) {
	query, args := buildCandidateQuery(filters)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	return candidates, nil
}

// buildCandidateQuery assembles the filtered listing query and its arguments.
func buildCandidateQuery(filters CandidateFilters) (string, []any) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}

	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Search != "" {
		query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", argNum, argNum, argNum)
		args = append(args, "%"+filters.Search+"%")
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}
	if filters.Position != "" {
		query += fmt.Sprintf(" AND position ILIKE $%d", argNum)
		args = append(args, "%"+filters.Position+"%")
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY applied_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filters.Limit, filters.Offset)
	return query, args
}

// UpdateCandidateStatus changes a candidate's pipeline status.
func (db *DB) UpdateCandidateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid candidate status: %s", status)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE candidates SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("candidate not found: %s", id)
	}
	return nil
}

// UpdateCandidateAnalysis persists a fresh AI assessment on a candidate.
func (db *DB) UpdateCandidateAnalysis(ctx context.Context, id uuid.UUID, score int, skills []string, experience, education string, strengths, weaknesses []string, recommendation, summary string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE candidates SET ai_score = $1, skills = $2, experience = $3,
		     education = $4, strengths = $5, weaknesses = $6,
		     recommendation = $7, summary = $8, updated_at = NOW()
		 WHERE id = $9`,
		score, emptyIfNil(skills), experience, education,
		emptyIfNil(strengths), emptyIfNil(weaknesses), recommendation, summary, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate analysis: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("candidate not found: %s", id)
	}
	return nil
}

// emptyIfNil keeps text[] columns NOT NULL friendly.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
