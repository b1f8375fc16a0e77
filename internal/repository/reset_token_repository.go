package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/smartrecruit/recruitment-backend/internal/model"
)

// ResetTokenRepo persists password-reset tokens. An account holds at
// most one outstanding token: Store deletes any prior rows for the
// user before inserting, and Consume deletes the token once redeemed.
type ResetTokenRepo struct{ DB *sql.DB }

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo { return &ResetTokenRepo{DB: db} }

// Store replaces the user's reset token. The delete-before-insert pair
// runs in a transaction so a crash cannot leave two valid tokens.
func (r *ResetTokenRepo) Store(ctx context.Context, userID uint64, token string, expiresAt time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE user_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (user_id, token, expires_at) VALUES (?,?,?)`,
		userID, token, expiresAt); err != nil {
		return err
	}
	return tx.Commit()
}

// Validate returns the token row when it exists and has not expired.
// Unknown and expired tokens both fail closed with ErrNotFound.
func (r *ResetTokenRepo) Validate(ctx context.Context, token string) (model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, token, expires_at, created_at
		 FROM password_reset_tokens WHERE token=? LIMIT 1`,
		token).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return model.PasswordResetToken{}, ErrNotFound
	}
	if err != nil {
		return model.PasswordResetToken{}, err
	}
	if time.Now().UTC().After(t.ExpiresAt) {
		return model.PasswordResetToken{}, ErrNotFound
	}
	return t, nil
}

// Consume deletes a redeemed token.
func (r *ResetTokenRepo) Consume(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE token=?`, token)
	return err
}
