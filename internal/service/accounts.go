package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/smartrecruit/recruitment-backend/internal/config"
	"github.com/smartrecruit/recruitment-backend/internal/mailer"
	"github.com/smartrecruit/recruitment-backend/internal/model"
	"github.com/smartrecruit/recruitment-backend/internal/repository"
	"github.com/smartrecruit/recruitment-backend/internal/utils"
)

// ErrInvalidCredentials covers a missing account, a wrong password, and
// a role outside {admin, super_admin}; the three cases are deliberately
// indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrTemporaryPasswordExpired is returned when the presented temporary
// password matches but its expiry has passed.
var ErrTemporaryPasswordExpired = errors.New("temporary password has expired, please request a new one")

// ErrInvalidResetToken is returned when a reset token is unknown or
// expired; the flow fails closed in both cases.
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

// UserStore is the slice of the user repository the account service
// depends on.
type UserStore interface {
	Create(ctx context.Context, u *model.User) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	ListAdmins(ctx context.Context) ([]model.User, error)
	SuperAdminEmail(ctx context.Context) (string, error)
	SetPassword(ctx context.Context, id uint64, hash string, isTemporary bool, expiresAt *time.Time) error
	SetRole(ctx context.Context, id uint64, role string) error
	SetStatus(ctx context.Context, id uint64, status string) error
	SetEmail(ctx context.Context, id uint64, newEmail, previousEmail string) error
	Delete(ctx context.Context, id uint64) error
}

// ResetTokenStore persists single-use password-reset tokens.
type ResetTokenStore interface {
	Store(ctx context.Context, userID uint64, token string, expiresAt time.Time) error
	Validate(ctx context.Context, token string) (model.PasswordResetToken, error)
	Consume(ctx context.Context, token string) error
}

// Accounts implements the admin account lifecycle: login, account
// creation with temporary passwords, password updates, and the two
// reset flows (temporary-password and token-based).
type Accounts struct {
	users      UserStore
	tokens     ResetTokenStore
	mail       mailer.Sender
	log        *zap.Logger
	secret     string
	ttlMin     int
	bcryptCost int
}

func NewAccounts(users UserStore, tokens ResetTokenStore, mail mailer.Sender, cfg config.Config, log *zap.Logger) *Accounts {
	return &Accounts{
		users:      users,
		tokens:     tokens,
		mail:       mail,
		log:        log,
		secret:     cfg.JWTSecret,
		ttlMin:     cfg.AccessTTLMin,
		bcryptCost: cfg.BcryptCost,
	}
}

// LoginSuccess carries the signed token and the public user projection.
type LoginSuccess struct {
	Token     string           `json:"access_token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      model.PublicUser `json:"user"`
}

// Deactivation is the structured notice returned (not an error) when a
// deactivated account presents otherwise valid credentials.
type Deactivation struct {
	Message         string `json:"message"`
	SuperAdminEmail string `json:"superAdminEmail,omitempty"`
}

// LoginResult is a tagged result: exactly one of Success or
// Deactivated is non-nil when Login returns without error.
type LoginResult struct {
	Success     *LoginSuccess
	Deactivated *Deactivation
}

// Login authenticates an admin account. Wrong credentials and
// non-admin roles yield ErrInvalidCredentials; an inactive account
// yields a Deactivated result including the super-admin support
// contact; an expired temporary password is rejected even when it
// matches.
func (a *Accounts) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if u.Role != model.RoleAdmin && u.Role != model.RoleSuperAdmin {
		return LoginResult{}, ErrInvalidCredentials
	}
	if u.Status != model.AccountActive {
		support, err := a.users.SuperAdminEmail(ctx)
		if err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Deactivated: &Deactivation{
			Message:         "Your account is deactivated. Please contact the administrator.",
			SuperAdminEmail: support,
		}}, nil
	}
	if u.IsTemporaryPassword && u.PasswordExpiresAt != nil && u.PasswordExpiresAt.Before(time.Now()) {
		return LoginResult{}, ErrTemporaryPasswordExpired
	}

	tok, err := utils.NewAccessToken(a.secret, u.ID, u.Email, u.Role, a.ttlMin)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Success: &LoginSuccess{
		Token:     tok.Token,
		ExpiresAt: tok.Exp,
		User:      u.Public(),
	}}, nil
}

// AddAdmin creates an admin account with a freshly minted temporary
// password (24h expiry) and emails the plaintext credential to the new
// admin. The welcome mail is best-effort; a send failure does not undo
// the created account.
func (a *Accounts) AddAdmin(ctx context.Context, email, role string) (model.PublicUser, error) {
	if role != model.RoleAdmin && role != model.RoleSuperAdmin {
		role = model.RoleAdmin
	}
	temp, err := utils.NewTemporaryPassword()
	if err != nil {
		return model.PublicUser{}, err
	}
	hash, err := utils.HashPassword(temp, a.bcryptCost)
	if err != nil {
		return model.PublicUser{}, err
	}
	expires := time.Now().Add(24 * time.Hour)
	u := model.User{
		Email:               email,
		PasswordHash:        hash,
		Role:                role,
		Status:              model.AccountActive,
		IsTemporaryPassword: true,
		PasswordExpiresAt:   &expires,
	}
	if _, err := a.users.Create(ctx, &u); err != nil {
		return model.PublicUser{}, err
	}
	if out := a.mail.SendAdminWelcome(ctx, u.Email, role, temp); !out.Success {
		a.log.Warn("admin welcome mail not delivered", zap.String("email", u.Email))
	}
	created, err := a.users.GetByID(ctx, u.ID)
	if err != nil {
		return model.PublicUser{}, err
	}
	return created.Public(), nil
}

// UpdatePassword verifies the current password and stores a new hash,
// clearing any temporary-password state.
func (a *Accounts) UpdatePassword(ctx context.Context, userID uint64, current, newPassword string) error {
	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	hash, err := utils.HashPassword(newPassword, a.bcryptCost)
	if err != nil {
		return err
	}
	return a.users.SetPassword(ctx, userID, hash, false, nil)
}

// UpdateEmail changes the account's email, recording the previous
// address. A taken email surfaces as repository.ErrEmailExists.
func (a *Accounts) UpdateEmail(ctx context.Context, userID uint64, newEmail string) (model.PublicUser, error) {
	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}
	if err := a.users.SetEmail(ctx, userID, newEmail, u.Email); err != nil {
		return model.PublicUser{}, err
	}
	updated, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}
	return updated.Public(), nil
}

// FlowResult is the constant-shaped response for the self-service
// password flows.
type FlowResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ForgotPassword mints a temporary password for the account and emails
// it. The response shape is identical whether or not the email exists,
// so account existence is never revealed on this path.
func (a *Accounts) ForgotPassword(ctx context.Context, email string) FlowResult {
	hidden := FlowResult{Success: true, Message: "If the email exists, a temporary password will be sent."}
	u, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return hidden
		}
		a.log.Error("forgot password lookup failed", zap.Error(err))
		return FlowResult{Success: false, Message: "Failed to process password reset request."}
	}
	temp, err := utils.NewTemporaryPassword()
	if err != nil {
		a.log.Error("temporary password generation failed", zap.Error(err))
		return FlowResult{Success: false, Message: "Failed to process password reset request."}
	}
	hash, err := utils.HashPassword(temp, a.bcryptCost)
	if err != nil {
		a.log.Error("temporary password hash failed", zap.Error(err))
		return FlowResult{Success: false, Message: "Failed to process password reset request."}
	}
	expires := time.Now().Add(24 * time.Hour)
	if err := a.users.SetPassword(ctx, u.ID, hash, true, &expires); err != nil {
		a.log.Error("temporary password store failed", zap.Error(err))
		return FlowResult{Success: false, Message: "Failed to process password reset request."}
	}
	a.mail.SendTemporaryPassword(ctx, u.Email, temp)
	return FlowResult{Success: true, Message: "Temporary password sent to your email."}
}

// ChangeTemporaryPassword exchanges a valid, unexpired temporary
// password for a caller-chosen one. Unlike ForgotPassword this path
// reveals a missing account; the caller already holds an emailed
// credential here, so existence is not a secret.
func (a *Accounts) ChangeTemporaryPassword(ctx context.Context, email, temporary, newPassword string) FlowResult {
	u, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return FlowResult{Success: false, Message: "User not found."}
		}
		a.log.Error("temporary password lookup failed", zap.Error(err))
		return FlowResult{Success: false, Message: "Failed to change password."}
	}
	if !utils.VerifyPassword(u.PasswordHash, temporary) {
		return FlowResult{Success: false, Message: "Invalid temporary password."}
	}
	if u.PasswordExpiresAt != nil && u.PasswordExpiresAt.Before(time.Now()) {
		return FlowResult{Success: false, Message: "Temporary password has expired. Please request a new one."}
	}
	hash, err := utils.HashPassword(newPassword, a.bcryptCost)
	if err != nil {
		a.log.Error("password hash failed", zap.Error(err))
		return FlowResult{Success: false, Message: "Failed to change password."}
	}
	if err := a.users.SetPassword(ctx, u.ID, hash, false, nil); err != nil {
		a.log.Error("password store failed", zap.Error(err))
		return FlowResult{Success: false, Message: "Failed to change password."}
	}
	return FlowResult{Success: true, Message: "Password changed successfully."}
}

// RequestReset issues a password-reset token, superseding any prior
// token for the account. A missing account is silently ignored so the
// response shape never reveals existence.
func (a *Accounts) RequestReset(ctx context.Context, email string) error {
	u, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	token, err := utils.NewResetToken()
	if err != nil {
		return err
	}
	return a.tokens.Store(ctx, u.ID, token, time.Now().Add(time.Hour))
}

// ResetPassword redeems a reset token: the new password is hashed and
// stored, temporary-password state is cleared, and the token is
// consumed so it cannot be replayed.
func (a *Accounts) ResetPassword(ctx context.Context, token, newPassword string) error {
	t, err := a.tokens.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	hash, err := utils.HashPassword(newPassword, a.bcryptCost)
	if err != nil {
		return err
	}
	if err := a.users.SetPassword(ctx, t.UserID, hash, false, nil); err != nil {
		return err
	}
	return a.tokens.Consume(ctx, token)
}

// Profile returns the public projection of a single account.
func (a *Accounts) Profile(ctx context.Context, id uint64) (model.PublicUser, error) {
	u, err := a.users.GetByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, err
	}
	return u.Public(), nil
}

// ListAdmins returns the public projection of every admin account.
func (a *Accounts) ListAdmins(ctx context.Context) ([]model.PublicUser, error) {
	users, err := a.users.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// ToggleStatus flips an admin account between Active and Inactive.
func (a *Accounts) ToggleStatus(ctx context.Context, id uint64, status string) (model.PublicUser, error) {
	if status != model.AccountActive && status != model.AccountInactive {
		return model.PublicUser{}, ErrInvalidStatus
	}
	u, err := a.users.GetByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, err
	}
	if u.Role != model.RoleAdmin && u.Role != model.RoleSuperAdmin {
		return model.PublicUser{}, repository.ErrForbidden
	}
	if err := a.users.SetStatus(ctx, id, status); err != nil {
		return model.PublicUser{}, err
	}
	u.Status = status
	return u.Public(), nil
}

// UpdateRole changes an admin account's role.
func (a *Accounts) UpdateRole(ctx context.Context, id uint64, role string) (model.PublicUser, error) {
	if role != model.RoleAdmin && role != model.RoleSuperAdmin {
		return model.PublicUser{}, repository.ErrForbidden
	}
	if err := a.users.SetRole(ctx, id, role); err != nil {
		return model.PublicUser{}, err
	}
	u, err := a.users.GetByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, err
	}
	return u.Public(), nil
}

// RemoveAdmin hard-deletes an admin account.
func (a *Accounts) RemoveAdmin(ctx context.Context, id uint64) error {
	u, err := a.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role != model.RoleAdmin && u.Role != model.RoleSuperAdmin {
		return repository.ErrForbidden
	}
	return a.users.Delete(ctx, id)
}
