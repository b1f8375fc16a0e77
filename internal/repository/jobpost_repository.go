// This file defines the job-posting repository: CRUD plus the derived
// read views (search, expiring, recent, salary range). The list columns
// (requirements, responsibilities, skills) are stored as JSON arrays in
// TEXT columns and always decode to a non-nil slice.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/smartrecruit/recruitment-backend/internal/model"
)

// JobPostRepo manages persistence for job postings.
type JobPostRepo struct{ DB *sql.DB }

func NewJobPostRepo(db *sql.DB) *JobPostRepo { return &JobPostRepo{DB: db} }

const jobPostCols = `id, title, description, company, location, job_type, department,
	experience, salary, deadline, is_active, requirements, responsibilities, skills,
	created_at, updated_at`

// Create inserts a posting, generating its ID when absent, and
// refreshes the struct with the DB-default timestamps.
func (r *JobPostRepo) Create(ctx context.Context, p *model.JobPost) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Department == "" {
		p.Department = "General"
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO job_posts
			(id, title, description, company, location, job_type, department,
			 experience, salary, deadline, is_active, requirements, responsibilities, skills)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Title, p.Description, p.Company, p.Location, p.JobType, p.Department,
		p.Experience, p.Salary, p.Deadline, p.IsActive,
		encodeList(p.Requirements), encodeList(p.Responsibilities), encodeList(p.Skills))
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = got
	return nil
}

// GetByID fetches a posting by id, returning ErrNotFound when missing.
func (r *JobPostRepo) GetByID(ctx context.Context, id string) (model.JobPost, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+jobPostCols+` FROM job_posts WHERE id=? LIMIT 1`, id)
	p, err := scanJobPost(row)
	if err == sql.ErrNoRows {
		return model.JobPost{}, ErrNotFound
	}
	return p, err
}

// JobPostFilters narrows FindAll. Company and Location are
// case-insensitive substring matches; JobType is exact; IsActive
// filters only when non-nil.
type JobPostFilters struct {
	IsActive *bool
	Company  string
	Location string
	JobType  string
}

// FindAll returns postings matching the filters, newest first.
func (r *JobPostRepo) FindAll(ctx context.Context, f JobPostFilters) ([]model.JobPost, error) {
	q := `SELECT ` + jobPostCols + ` FROM job_posts WHERE 1=1`
	args := []any{}
	if f.IsActive != nil {
		q += ` AND is_active=?`
		args = append(args, *f.IsActive)
	}
	if f.Company != "" {
		q += ` AND LOWER(company) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.Company)+"%")
	}
	if f.Location != "" {
		q += ` AND LOWER(location) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.Location)+"%")
	}
	if f.JobType != "" {
		q += ` AND job_type=?`
		args = append(args, f.JobType)
	}
	q += ` ORDER BY created_at DESC`
	return r.queryJobPosts(ctx, q, args...)
}

// Update overwrites the mutable fields of an existing posting.
func (r *JobPostRepo) Update(ctx context.Context, p *model.JobPost) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE job_posts SET title=?, description=?, company=?, location=?, job_type=?,
			department=?, experience=?, salary=?, deadline=?, is_active=?,
			requirements=?, responsibilities=?, skills=?
		 WHERE id=?`,
		p.Title, p.Description, p.Company, p.Location, p.JobType,
		p.Department, p.Experience, p.Salary, p.Deadline, p.IsActive,
		encodeList(p.Requirements), encodeList(p.Responsibilities), encodeList(p.Skills),
		p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	got, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = got
	return nil
}

// Delete removes a posting, returning ErrNotFound when no row matched.
func (r *JobPostRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM job_posts WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleStatus flips the is_active flag and returns the updated row.
func (r *JobPostRepo) ToggleStatus(ctx context.Context, id string) (model.JobPost, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE job_posts SET is_active = NOT is_active WHERE id=?`, id)
	if err != nil {
		return model.JobPost{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.JobPost{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Search returns postings whose title or description contains the
// keyword, case-insensitively.
func (r *JobPostRepo) Search(ctx context.Context, keyword string) ([]model.JobPost, error) {
	kw := "%" + strings.ToLower(keyword) + "%"
	return r.queryJobPosts(ctx,
		`SELECT `+jobPostCols+` FROM job_posts
		 WHERE LOWER(title) LIKE ? OR LOWER(description) LIKE ?
		 ORDER BY created_at DESC`, kw, kw)
}

// Expiring returns active postings whose deadline falls within the next
// seven days: deadline > now AND deadline <= now + 7 days.
func (r *JobPostRepo) Expiring(ctx context.Context) ([]model.JobPost, error) {
	return r.queryJobPosts(ctx,
		`SELECT `+jobPostCols+` FROM job_posts
		 WHERE is_active = TRUE
		   AND deadline > NOW()
		   AND deadline <= DATE_ADD(NOW(), INTERVAL 7 DAY)
		 ORDER BY deadline ASC`)
}

// Recent returns active postings created within the last 30 days,
// newest first.
func (r *JobPostRepo) Recent(ctx context.Context) ([]model.JobPost, error) {
	return r.queryJobPosts(ctx,
		`SELECT `+jobPostCols+` FROM job_posts
		 WHERE is_active = TRUE
		   AND created_at >= DATE_SUB(NOW(), INTERVAL 30 DAY)
		 ORDER BY created_at DESC`)
}

// BySalaryRange returns active postings whose salary lies in
// [min, max], both bounds inclusive.
func (r *JobPostRepo) BySalaryRange(ctx context.Context, min, max float64) ([]model.JobPost, error) {
	return r.queryJobPosts(ctx,
		`SELECT `+jobPostCols+` FROM job_posts
		 WHERE is_active = TRUE AND salary BETWEEN ? AND ?
		 ORDER BY salary ASC`, min, max)
}

func (r *JobPostRepo) queryJobPosts(ctx context.Context, q string, args ...any) ([]model.JobPost, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.JobPost{}
	for rows.Next() {
		p, err := scanJobPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanJobPost(row rowScanner) (model.JobPost, error) {
	var (
		p                model.JobPost
		req, resp, skill sql.NullString
	)
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Company, &p.Location,
		&p.JobType, &p.Department, &p.Experience, &p.Salary, &p.Deadline,
		&p.IsActive, &req, &resp, &skill, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.JobPost{}, err
	}
	p.Requirements = decodeList(req)
	p.Responsibilities = decodeList(resp)
	p.Skills = decodeList(skill)
	return p, nil
}

// encodeList serializes a string list to its JSON column form. A nil
// slice is stored as an empty array so reads never see SQL NULL.
func encodeList(vals []string) string {
	if vals == nil {
		vals = []string{}
	}
	b, _ := json.Marshal(vals)
	return string(b)
}

// decodeList parses a JSON column value, tolerating NULL and malformed
// rows by returning an empty slice.
func decodeList(col sql.NullString) []string {
	if !col.Valid || col.String == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(col.String), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}
