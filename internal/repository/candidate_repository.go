// Package repository contains data access logic for the recruitment
// domain. This file defines the candidate repository. A candidate row
// is one application for one job posting; the unique key on
// (email, job_title) enforces the one-application-per-job invariant at
// the storage layer regardless of any advisory pre-checks above it.
package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/smartrecruit/recruitment-backend/internal/model"
)

// CandidateFilters narrows FindAll results. Status is matched exactly;
// Department and Location are case-insensitive substring matches. All
// present filters are combined conjunctively.
type CandidateFilters struct {
	Status     string
	Department string
	Location   string
}

// CandidateRepo manages persistence for candidate applications.
type CandidateRepo struct{ DB *sql.DB }

func NewCandidateRepo(db *sql.DB) *CandidateRepo { return &CandidateRepo{DB: db} }

const candidateCols = `id, fullname, email, phone_number, job_title, department, location,
	gpa, experience, skills, cover_letter, resume_path, link, status, applied_at, updated_at`

// Create inserts a new application. The ID is generated here when the
// caller did not supply one, and the status defaults to Received. A
// duplicate (email, job_title) pair is reported as
// ErrDuplicateApplication, whether detected by the caller's pre-check
// or by the unique key (MySQL error 1062) on a racing insert.
func (r *CandidateRepo) Create(ctx context.Context, c *model.Candidate) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = model.StatusReceived
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO candidates
			(id, fullname, email, phone_number, job_title, department, location,
			 gpa, experience, skills, cover_letter, resume_path, link, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.ID, c.FullName, c.Email, c.PhoneNumber, c.JobTitle, c.Department, c.Location,
		c.GPA, c.Experience, c.Skills, c.CoverLetter,
		nullIfEmpty(c.ResumePath), nullIfEmpty(c.Link), string(c.Status))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateApplication
		}
		return err
	}
	// Re-read the row so DB-default timestamps land on the struct.
	got, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = got
	return nil
}

// GetByID fetches an application by id, returning ErrNotFound when the
// row does not exist.
func (r *CandidateRepo) GetByID(ctx context.Context, id string) (model.Candidate, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+candidateCols+` FROM candidates WHERE id=? LIMIT 1`, id)
	c, err := scanCandidate(row)
	if err == sql.ErrNoRows {
		return model.Candidate{}, ErrNotFound
	}
	return c, err
}

// FindAll returns applications matching the given filters, most recent
// applied date first.
func (r *CandidateRepo) FindAll(ctx context.Context, f CandidateFilters) ([]model.Candidate, error) {
	q := `SELECT ` + candidateCols + ` FROM candidates WHERE 1=1`
	args := []any{}
	if f.Status != "" {
		q += ` AND status=?`
		args = append(args, f.Status)
	}
	if f.Department != "" {
		q += ` AND LOWER(department) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.Department)+"%")
	}
	if f.Location != "" {
		q += ` AND LOWER(location) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.Location)+"%")
	}
	q += ` ORDER BY applied_at DESC`
	return r.queryCandidates(ctx, q, args...)
}

// FindByJob returns applications whose job title contains the given
// substring, case-insensitively.
func (r *CandidateRepo) FindByJob(ctx context.Context, jobTitle string) ([]model.Candidate, error) {
	return r.queryCandidates(ctx,
		`SELECT `+candidateCols+` FROM candidates
		 WHERE LOWER(job_title) LIKE ? ORDER BY applied_at DESC`,
		"%"+strings.ToLower(jobTitle)+"%")
}

// Exists reports whether an application already exists for the given
// (email, job title) pair. The result is advisory only; Create may
// still fail with ErrDuplicateApplication under a racing insert.
func (r *CandidateRepo) Exists(ctx context.Context, email, jobTitle string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM candidates WHERE email=? AND job_title=?`,
		email, jobTitle).Scan(&n)
	return n > 0, err
}

// Update persists the mutable fields of an existing application and
// refreshes the struct from the stored row.
func (r *CandidateRepo) Update(ctx context.Context, c *model.Candidate) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE candidates SET fullname=?, email=?, phone_number=?, job_title=?,
			department=?, location=?, gpa=?, experience=?, skills=?, cover_letter=?,
			resume_path=?, link=?, status=?
		 WHERE id=?`,
		c.FullName, strings.ToLower(strings.TrimSpace(c.Email)), c.PhoneNumber, c.JobTitle,
		c.Department, c.Location, c.GPA, c.Experience, c.Skills, c.CoverLetter,
		nullIfEmpty(c.ResumePath), nullIfEmpty(c.Link), string(c.Status), c.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateApplication
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero rows can also mean a no-op write; confirm existence before
		// reporting not found.
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	got, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = got
	return nil
}

// UpdateStatus sets only the workflow status of an application.
func (r *CandidateRepo) UpdateStatus(ctx context.Context, id string, status model.CandidateStatus) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE candidates SET status=? WHERE id=?`, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an application, returning ErrNotFound when no row
// matched the id.
func (r *CandidateRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM candidates WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats returns the total application count plus counts grouped by
// status and by department. The three queries are not wrapped in a
// transaction; minor staleness under concurrent writes is acceptable.
func (r *CandidateRepo) Stats(ctx context.Context) (model.CandidateStats, error) {
	stats := model.CandidateStats{
		ByStatus:     map[string]int{},
		ByDepartment: map[string]int{},
	}
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM candidates`).Scan(&stats.Total); err != nil {
		return stats, err
	}
	if err := r.groupCount(ctx,
		`SELECT status, COUNT(*) FROM candidates GROUP BY status`,
		stats.ByStatus); err != nil {
		return stats, err
	}
	if err := r.groupCount(ctx,
		`SELECT department, COUNT(*) FROM candidates GROUP BY department`,
		stats.ByDepartment); err != nil {
		return stats, err
	}
	return stats, nil
}

func (r *CandidateRepo) groupCount(ctx context.Context, q string, dst map[string]int) error {
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		dst[key] = n
	}
	return rows.Err()
}

func (r *CandidateRepo) queryCandidates(ctx context.Context, q string, args ...any) ([]model.Candidate, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanCandidate(row rowScanner) (model.Candidate, error) {
	var (
		c            model.Candidate
		resume, link sql.NullString
		status       string
	)
	err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.PhoneNumber, &c.JobTitle,
		&c.Department, &c.Location, &c.GPA, &c.Experience, &c.Skills, &c.CoverLetter,
		&resume, &link, &status, &c.AppliedAt, &c.UpdatedAt)
	if err != nil {
		return model.Candidate{}, err
	}
	c.ResumePath = resume.String
	c.Link = link.String
	c.Status = model.CandidateStatus(status)
	return c, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
