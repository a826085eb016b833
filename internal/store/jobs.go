package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jobsift-engine/internal/domain"
)

// GetJob returns the stored record for id, or nil when absent.
func (d *DB) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	row := d.Pool.QueryRowContext(ctx, `
SELECT job_id, title, company, location, url, source, status, score,
       analysis, cover_letter, notes, raw_text, description,
       received_at, created_at, updated_at
FROM jobs
WHERE job_id = ?
LIMIT 1;`, id)

	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return j, nil
}

// InsertJobIfAbsent stores a newly parsed job unless a record with the same
// identity already exists. INSERT OR IGNORE keyed on the primary key makes
// check-then-insert atomic, so two concurrent ingests of the same job can't
// both win. Returns whether the row was actually inserted.
func (d *DB) InsertJobIfAbsent(ctx context.Context, j domain.Job) (bool, error) {
	if j.ID == "" {
		return false, errors.New("missing job id")
	}
	if j.URL == "" {
		return false, errors.New("missing url")
	}
	if j.Company == "" {
		j.Company = "Unknown"
	}
	if j.ReceivedAt.IsZero() {
		j.ReceivedAt = time.Now().UTC()
	}

	now := time.Now().UTC().Format(time.RFC3339)

	res, err := d.Pool.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs(job_id, title, company, location, url, source,
                           status, score, raw_text, description,
                           received_at, created_at, updated_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?);`,
		j.ID,
		j.Title,
		j.Company,
		j.Location,
		j.URL,
		string(j.Source),
		string(domain.StatusNew),
		0,
		j.RawText,
		j.Description,
		j.ReceivedAt.UTC().Format(time.RFC3339),
		now,
		now,
	)
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}

	n, _ := res.RowsAffected()
	return n > 0, nil
}

// EnrichJob fills description and raw_text on an existing record, but only
// where they are still blank. Status, score, analysis and cover letter are
// never touched here; those belong to the user and the downstream stage.
func (d *DB) EnrichJob(ctx context.Context, id, description, rawText string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	if description != "" {
		if _, err := d.Pool.ExecContext(ctx, `
UPDATE jobs
SET description = ?, updated_at = ?
WHERE job_id = ? AND description = '';`, description, now, id); err != nil {
			return fmt.Errorf("enrich description: %w", err)
		}
	}
	if rawText != "" {
		if _, err := d.Pool.ExecContext(ctx, `
UPDATE jobs
SET raw_text = ?, updated_at = ?
WHERE job_id = ? AND raw_text = '';`, rawText, now, id); err != nil {
			return fmt.Errorf("enrich raw_text: %w", err)
		}
	}
	return nil
}

// UpdateStatus moves a job through its lifecycle (user action).
func (d *DB) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	if !domain.ValidStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}
	res, err := d.Pool.ExecContext(ctx, `
UPDATE jobs
SET status = ?, updated_at = ?
WHERE job_id = ?;`, string(status), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("job %s not found", id)
	}
	return nil
}

// SetAnalysis is the write-back surface for the downstream scoring stage.
func (d *DB) SetAnalysis(ctx context.Context, id string, score int, analysisJSON string) error {
	_, err := d.Pool.ExecContext(ctx, `
UPDATE jobs
SET score = ?, analysis = ?, updated_at = ?
WHERE job_id = ?;`, score, analysisJSON, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("set analysis: %w", err)
	}
	return nil
}

func (d *DB) SetCoverLetter(ctx context.Context, id, coverLetter string) error {
	_, err := d.Pool.ExecContext(ctx, `
UPDATE jobs
SET cover_letter = ?, updated_at = ?
WHERE job_id = ?;`, coverLetter, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("set cover letter: %w", err)
	}
	return nil
}

type ListJobsOpts struct {
	Status   domain.Status // "" = all
	MinScore int
	Limit    int
}

// Stats summarizes the tracked set for the dashboard header.
type Stats struct {
	Total      int     `json:"total"`
	New        int     `json:"new"`
	Interested int     `json:"interested"`
	Applied    int     `json:"applied"`
	AvgScore   float64 `json:"avg_score"`
}

func (d *DB) ListJobs(ctx context.Context, opts ListJobsOpts) ([]domain.Job, error) {
	if opts.Limit <= 0 || opts.Limit > 5000 {
		opts.Limit = 1000
	}

	query := `
SELECT job_id, title, company, location, url, source, status, score,
       analysis, cover_letter, notes, raw_text, description,
       received_at, created_at, updated_at
FROM jobs
WHERE 1=1`
	var args []any

	if opts.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(opts.Status))
	}
	if opts.MinScore > 0 {
		query += ` AND score >= ?`
		args = append(args, opts.MinScore)
	}
	query += `
ORDER BY score DESC, received_at DESC
LIMIT ?;`
	args = append(args, opts.Limit)

	rows, err := d.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

func (d *DB) JobStats(ctx context.Context) (Stats, error) {
	var s Stats
	err := d.Pool.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN status = 'new' THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN status = 'interested' THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN status = 'applied' THEN 1 ELSE 0 END), 0),
       COALESCE(AVG(score), 0)
FROM jobs;`).Scan(&s.Total, &s.New, &s.Interested, &s.Applied, &s.AvgScore)
	if err != nil {
		return Stats{}, fmt.Errorf("job stats: %w", err)
	}
	return s, nil
}

// CleanupOldJobs drops never-touched records older than the retention
// window. Jobs the user moved past "new" are kept forever.
func (d *DB) CleanupOldJobs(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	res, err := d.Pool.ExecContext(ctx, `
DELETE FROM jobs
WHERE status = 'new' AND score = 0 AND received_at < ?;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup old jobs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (*domain.Job, error) {
	var j domain.Job
	var source, status string
	var receivedAt, createdAt, updatedAt string

	if err := r.Scan(
		&j.ID, &j.Title, &j.Company, &j.Location, &j.URL, &source, &status,
		&j.Score, &j.Analysis, &j.CoverLetter, &j.Notes, &j.RawText,
		&j.Description, &receivedAt, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	j.Source = domain.Source(source)
	j.Status = domain.Status(status)
	j.ReceivedAt, _ = time.Parse(time.RFC3339, receivedAt)
	j.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &j, nil
}
