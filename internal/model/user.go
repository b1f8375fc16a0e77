package model

import "time"

// Admin roles accepted by the backend. Only these two roles may log in;
// super_admin additionally unlocks the account-management endpoints.
const (
    RoleAdmin      = "admin"
    RoleSuperAdmin = "super_admin"
)

// Account statuses. An Inactive account cannot log in; login returns a
// structured deactivation notice instead of a token.
const (
    AccountActive   = "Active"
    AccountInactive = "Inactive"
)

// User represents an admin account as stored in the `users` table.
// PasswordHash is never serialized; handlers expose PublicUser instead.
//
// Fields:
//  ID                  – auto-increment primary key.
//  Email               – unique login email.
//  PreviousEmail       – prior email kept when the address is changed.
//  PasswordHash        – bcrypt hash of the current password.
//  Role                – admin or super_admin.
//  Status              – Active or Inactive.
//  IsTemporaryPassword – true while an issued temporary password is in use.
//  PasswordExpiresAt   – expiry of the temporary password (nil otherwise).
//  CreatedAt           – creation timestamp.
//  UpdatedAt           – last update timestamp.
type User struct {
    ID                  uint64     // users.id
    Email               string     // users.email
    PreviousEmail       string     // users.previous_email (nullable)
    PasswordHash        string     // users.password_hash
    Role                string     // users.role
    Status              string     // users.status
    IsTemporaryPassword bool       // users.is_temporary_password
    PasswordExpiresAt   *time.Time // users.password_expires_at (nullable)
    CreatedAt           time.Time  // users.created_at
    UpdatedAt           time.Time  // users.updated_at
}

// PublicUser is the projection of a User that handlers may return to
// clients. It deliberately omits the password hash and token columns.
type PublicUser struct {
    ID                  uint64    `json:"id"`
    Email               string    `json:"email"`
    PreviousEmail       string    `json:"previousEmail,omitempty"`
    Role                string    `json:"role"`
    Status              string    `json:"status"`
    IsTemporaryPassword bool      `json:"isTemporaryPassword"`
    CreatedAt           time.Time `json:"createdAt"`
    UpdatedAt           time.Time `json:"updatedAt"`
}

// Public returns the client-safe projection of u.
func (u User) Public() PublicUser {
    return PublicUser{
        ID:                  u.ID,
        Email:               u.Email,
        PreviousEmail:       u.PreviousEmail,
        Role:                u.Role,
        Status:              u.Status,
        IsTemporaryPassword: u.IsTemporaryPassword,
        CreatedAt:           u.CreatedAt,
        UpdatedAt:           u.UpdatedAt,
    }
}

// PasswordResetToken models a row in the `password_reset_tokens` table.
// At most one valid token exists per account: generating a new token
// deletes any prior rows for the same user.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owning account.
//  Token     – random opaque token (64 hex chars).
//  ExpiresAt – expiry, one hour after creation.
//  CreatedAt – creation timestamp.
type PasswordResetToken struct {
    ID        uint64    // password_reset_tokens.id
    UserID    uint64    // password_reset_tokens.user_id
    Token     string    // password_reset_tokens.token
    ExpiresAt time.Time // password_reset_tokens.expires_at
    CreatedAt time.Time // password_reset_tokens.created_at
}
