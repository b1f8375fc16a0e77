package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/smartrecruit/recruitment-backend/internal/model"
)

// UserRepo mirrors the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, email, previous_email, password_hash, role, status,
	is_temporary_password, password_expires_at, created_at, updated_at`

// Create inserts an account and returns its ID. The password must
// already be hashed by the caller.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, role, status, is_temporary_password, password_expires_at)
		 VALUES (?,?,?,?,?,?)`,
		u.Email, u.PasswordHash, u.Role, u.Status, u.IsTemporaryPassword, u.PasswordExpiresAt)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	return u.ID, nil
}

// GetByEmail fetches an account by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE email=? LIMIT 1`, email)
	return scanUser(row)
}

// GetByID fetches an account by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id=? LIMIT 1`, id)
	return scanUser(row)
}

// ListAdmins returns every admin and super_admin account, newest first.
func (r *UserRepo) ListAdmins(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+userCols+` FROM users
		 WHERE role IN ('admin','super_admin') ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SuperAdminEmail returns the email of a super_admin account, used as
// the support contact in deactivation notices. Empty when none exists.
func (r *UserRepo) SuperAdminEmail(ctx context.Context) (string, error) {
	var email string
	err := r.DB.QueryRowContext(ctx,
		`SELECT email FROM users WHERE role='super_admin' LIMIT 1`).Scan(&email)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return email, err
}

// SetPassword stores a new hash together with the temporary-password
// state. Passing isTemporary=false with a nil expiry clears any
// outstanding temporary password.
func (r *UserRepo) SetPassword(ctx context.Context, id uint64, hash string, isTemporary bool, expiresAt *time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash=?, is_temporary_password=?, password_expires_at=? WHERE id=?`,
		hash, isTemporary, expiresAt, id)
	if err != nil {
		return err
	}
	return r.touched(ctx, res, id)
}

// SetRole updates an account's role.
func (r *UserRepo) SetRole(ctx context.Context, id uint64, role string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET role=? WHERE id=?`, role, id)
	if err != nil {
		return err
	}
	return r.touched(ctx, res, id)
}

// SetStatus updates an account's Active/Inactive status.
func (r *UserRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET status=? WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	return r.touched(ctx, res, id)
}

// SetEmail replaces the account email, preserving the prior address in
// previous_email. A taken email is reported as ErrEmailExists.
func (r *UserRepo) SetEmail(ctx context.Context, id uint64, newEmail, previousEmail string) error {
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET email=?, previous_email=? WHERE id=?`,
		newEmail, previousEmail, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return r.touched(ctx, res, id)
}

// Delete removes an account.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// touched distinguishes "row missing" from "update was a no-op": MySQL
// reports zero affected rows for both, so a zero count triggers an
// existence check before reporting ErrNotFound.
func (r *UserRepo) touched(ctx context.Context, res sql.Result, id uint64) error {
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		u         model.User
		prevEmail sql.NullString
		expiresAt sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &prevEmail, &u.PasswordHash, &u.Role, &u.Status,
		&u.IsTemporaryPassword, &expiresAt, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.PreviousEmail = prevEmail.String
	if expiresAt.Valid {
		t := expiresAt.Time
		u.PasswordExpiresAt = &t
	}
	return u, nil
}
