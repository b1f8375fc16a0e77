package service

import (
    "context"
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap"
    "golang.org/x/crypto/bcrypt"

    "github.com/smartrecruit/recruitment-backend/internal/config"
    "github.com/smartrecruit/recruitment-backend/internal/model"
    "github.com/smartrecruit/recruitment-backend/internal/repository"
    "github.com/smartrecruit/recruitment-backend/internal/utils"
)

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
    nextID uint64
    users  map[uint64]model.User
}

func newFakeUserStore() *fakeUserStore {
    return &fakeUserStore{nextID: 1, users: map[uint64]model.User{}}
}

func (s *fakeUserStore) add(u model.User) model.User {
    u.ID = s.nextID
    s.nextID++
    s.users[u.ID] = u
    return u
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) (uint64, error) {
    for _, existing := range s.users {
        if existing.Email == u.Email {
            return 0, repository.ErrEmailExists
        }
    }
    u.ID = s.nextID
    s.nextID++
    s.users[u.ID] = *u
    return u.ID, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
    for _, u := range s.users {
        if u.Email == email {
            return u, nil
        }
    }
    return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
    u, ok := s.users[id]
    if !ok {
        return model.User{}, repository.ErrNotFound
    }
    return u, nil
}

func (s *fakeUserStore) ListAdmins(_ context.Context) ([]model.User, error) {
    out := make([]model.User, 0, len(s.users))
    for _, u := range s.users {
        out = append(out, u)
    }
    return out, nil
}

func (s *fakeUserStore) SuperAdminEmail(_ context.Context) (string, error) {
    for _, u := range s.users {
        if u.Role == model.RoleSuperAdmin {
            return u.Email, nil
        }
    }
    return "", repository.ErrNotFound
}

func (s *fakeUserStore) SetPassword(_ context.Context, id uint64, hash string, isTemporary bool, expiresAt *time.Time) error {
    u, ok := s.users[id]
    if !ok {
        return repository.ErrNotFound
    }
    u.PasswordHash = hash
    u.IsTemporaryPassword = isTemporary
    u.PasswordExpiresAt = expiresAt
    s.users[id] = u
    return nil
}

func (s *fakeUserStore) SetRole(_ context.Context, id uint64, role string) error {
    u, ok := s.users[id]
    if !ok {
        return repository.ErrNotFound
    }
    u.Role = role
    s.users[id] = u
    return nil
}

func (s *fakeUserStore) SetStatus(_ context.Context, id uint64, status string) error {
    u, ok := s.users[id]
    if !ok {
        return repository.ErrNotFound
    }
    u.Status = status
    s.users[id] = u
    return nil
}

func (s *fakeUserStore) SetEmail(_ context.Context, id uint64, newEmail, previousEmail string) error {
    for _, u := range s.users {
        if u.ID != id && u.Email == newEmail {
            return repository.ErrEmailExists
        }
    }
    u, ok := s.users[id]
    if !ok {
        return repository.ErrNotFound
    }
    u.Email = newEmail
    u.PreviousEmail = previousEmail
    s.users[id] = u
    return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id uint64) error {
    if _, ok := s.users[id]; !ok {
        return repository.ErrNotFound
    }
    delete(s.users, id)
    return nil
}

// fakeTokenStore is an in-memory ResetTokenStore keyed by token value.
type fakeTokenStore struct {
    tokens map[string]model.PasswordResetToken
}

func newFakeTokenStore() *fakeTokenStore {
    return &fakeTokenStore{tokens: map[string]model.PasswordResetToken{}}
}

func (s *fakeTokenStore) Store(_ context.Context, userID uint64, token string, expiresAt time.Time) error {
    for k, t := range s.tokens {
        if t.UserID == userID {
            delete(s.tokens, k)
        }
    }
    s.tokens[token] = model.PasswordResetToken{UserID: userID, Token: token, ExpiresAt: expiresAt}
    return nil
}

func (s *fakeTokenStore) Validate(_ context.Context, token string) (model.PasswordResetToken, error) {
    t, ok := s.tokens[token]
    if !ok || t.ExpiresAt.Before(time.Now()) {
        return model.PasswordResetToken{}, repository.ErrNotFound
    }
    return t, nil
}

func (s *fakeTokenStore) Consume(_ context.Context, token string) error {
    delete(s.tokens, token)
    return nil
}

func testAccounts(users *fakeUserStore, tokens *fakeTokenStore, mail *fakeSender) *Accounts {
    cfg := config.Config{
        JWTSecret:    "test-secret",
        AccessTTLMin: 15,
        BcryptCost:   bcrypt.MinCost,
    }
    return NewAccounts(users, tokens, mail, cfg, zap.NewNop())
}

func mustHash(t *testing.T, plain string) string {
    t.Helper()
    h, err := utils.HashPassword(plain, bcrypt.MinCost)
    require.NoError(t, err)
    return h
}

func activeAdmin(t *testing.T, users *fakeUserStore, email, password string) model.User {
    t.Helper()
    return users.add(model.User{
        Email:        email,
        PasswordHash: mustHash(t, password),
        Role:         model.RoleAdmin,
        Status:       model.AccountActive,
    })
}

func TestLoginSuccess(t *testing.T) {
    users := newFakeUserStore()
    activeAdmin(t, users, "admin@example.com", "correct horse")
    a := testAccounts(users, newFakeTokenStore(), okSender())

    res, err := a.Login(context.Background(), "admin@example.com", "correct horse")
    require.NoError(t, err)
    require.NotNil(t, res.Success)
    assert.Nil(t, res.Deactivated)
    assert.NotEmpty(t, res.Success.Token)
    assert.Equal(t, "admin@example.com", res.Success.User.Email)
}

func TestLoginWrongPassword(t *testing.T) {
    users := newFakeUserStore()
    activeAdmin(t, users, "admin@example.com", "correct horse")
    a := testAccounts(users, newFakeTokenStore(), okSender())

    _, err := a.Login(context.Background(), "admin@example.com", "wrong")
    assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
    a := testAccounts(newFakeUserStore(), newFakeTokenStore(), okSender())

    _, err := a.Login(context.Background(), "ghost@example.com", "whatever")
    assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDeactivatedAccountReturnsNotice(t *testing.T) {
    users := newFakeUserStore()
    users.add(model.User{
        Email:        "root@example.com",
        PasswordHash: mustHash(t, "irrelevant"),
        Role:         model.RoleSuperAdmin,
        Status:       model.AccountActive,
    })
    u := activeAdmin(t, users, "admin@example.com", "correct horse")
    require.NoError(t, users.SetStatus(context.Background(), u.ID, model.AccountInactive))

    a := testAccounts(users, newFakeTokenStore(), okSender())
    res, err := a.Login(context.Background(), "admin@example.com", "correct horse")
    require.NoError(t, err)
    require.NotNil(t, res.Deactivated)
    assert.Nil(t, res.Success)
    assert.Equal(t, "root@example.com", res.Deactivated.SuperAdminEmail)
    assert.Contains(t, res.Deactivated.Message, "deactivated")
}

func TestLoginExpiredTemporaryPassword(t *testing.T) {
    users := newFakeUserStore()
    expired := time.Now().Add(-time.Minute)
    users.add(model.User{
        Email:               "temp@example.com",
        PasswordHash:        mustHash(t, "SRtempPass1"),
        Role:                model.RoleAdmin,
        Status:              model.AccountActive,
        IsTemporaryPassword: true,
        PasswordExpiresAt:   &expired,
    })
    a := testAccounts(users, newFakeTokenStore(), okSender())

    _, err := a.Login(context.Background(), "temp@example.com", "SRtempPass1")
    assert.ErrorIs(t, err, ErrTemporaryPasswordExpired)
}

func TestAddAdminSendsTemporaryPassword(t *testing.T) {
    users := newFakeUserStore()
    mail := okSender()
    a := testAccounts(users, newFakeTokenStore(), mail)

    u, err := a.AddAdmin(context.Background(), "new@example.com", "bogus-role")
    require.NoError(t, err)
    assert.Equal(t, model.RoleAdmin, u.Role) // unknown roles default to admin
    assert.True(t, u.IsTemporaryPassword)
    assert.Equal(t, 1, mail.welcomeSends)

    stored, err := users.GetByEmail(context.Background(), "new@example.com")
    require.NoError(t, err)
    require.NotNil(t, stored.PasswordExpiresAt)
    assert.WithinDuration(t, time.Now().Add(24*time.Hour), *stored.PasswordExpiresAt, time.Minute)
}

func TestAddAdminDuplicateEmail(t *testing.T) {
    users := newFakeUserStore()
    activeAdmin(t, users, "dup@example.com", "x")
    a := testAccounts(users, newFakeTokenStore(), okSender())

    _, err := a.AddAdmin(context.Background(), "dup@example.com", model.RoleAdmin)
    assert.ErrorIs(t, err, repository.ErrEmailExists)
}

func TestUpdatePassword(t *testing.T) {
    users := newFakeUserStore()
    u := activeAdmin(t, users, "admin@example.com", "old password")
    a := testAccounts(users, newFakeTokenStore(), okSender())

    err := a.UpdatePassword(context.Background(), u.ID, "wrong", "new password")
    assert.ErrorIs(t, err, ErrInvalidCredentials)

    require.NoError(t, a.UpdatePassword(context.Background(), u.ID, "old password", "new password"))
    stored, _ := users.GetByID(context.Background(), u.ID)
    assert.True(t, utils.VerifyPassword(stored.PasswordHash, "new password"))
    assert.False(t, stored.IsTemporaryPassword)
}

func TestUpdateEmailKeepsPrevious(t *testing.T) {
    users := newFakeUserStore()
    u := activeAdmin(t, users, "old@example.com", "pw")
    a := testAccounts(users, newFakeTokenStore(), okSender())

    updated, err := a.UpdateEmail(context.Background(), u.ID, "new@example.com")
    require.NoError(t, err)
    assert.Equal(t, "new@example.com", updated.Email)
    assert.Equal(t, "old@example.com", updated.PreviousEmail)
}

func TestForgotPasswordHidesAccountExistence(t *testing.T) {
    users := newFakeUserStore()
    activeAdmin(t, users, "known@example.com", "pw")
    mail := okSender()
    a := testAccounts(users, newFakeTokenStore(), mail)

    missing := a.ForgotPassword(context.Background(), "missing@example.com")
    assert.True(t, missing.Success)
    assert.Equal(t, 0, mail.tempSends)

    known := a.ForgotPassword(context.Background(), "known@example.com")
    assert.True(t, known.Success)
    assert.Equal(t, 1, mail.tempSends)

    stored, _ := users.GetByEmail(context.Background(), "known@example.com")
    assert.True(t, stored.IsTemporaryPassword)
    require.NotNil(t, stored.PasswordExpiresAt)
}

func TestChangeTemporaryPassword(t *testing.T) {
    users := newFakeUserStore()
    future := time.Now().Add(time.Hour)
    users.add(model.User{
        Email:               "temp@example.com",
        PasswordHash:        mustHash(t, "SRtempPass1"),
        Role:                model.RoleAdmin,
        Status:              model.AccountActive,
        IsTemporaryPassword: true,
        PasswordExpiresAt:   &future,
    })
    a := testAccounts(users, newFakeTokenStore(), okSender())

    res := a.ChangeTemporaryPassword(context.Background(), "nobody@example.com", "x", "new password")
    assert.False(t, res.Success)
    assert.Equal(t, "User not found.", res.Message)

    res = a.ChangeTemporaryPassword(context.Background(), "temp@example.com", "wrong", "new password")
    assert.False(t, res.Success)

    res = a.ChangeTemporaryPassword(context.Background(), "temp@example.com", "SRtempPass1", "new password")
    assert.True(t, res.Success)

    stored, _ := users.GetByEmail(context.Background(), "temp@example.com")
    assert.False(t, stored.IsTemporaryPassword)
    assert.True(t, utils.VerifyPassword(stored.PasswordHash, "new password"))
}

func TestChangeTemporaryPasswordExpired(t *testing.T) {
    users := newFakeUserStore()
    expired := time.Now().Add(-time.Minute)
    users.add(model.User{
        Email:               "temp@example.com",
        PasswordHash:        mustHash(t, "SRtempPass1"),
        Role:                model.RoleAdmin,
        Status:              model.AccountActive,
        IsTemporaryPassword: true,
        PasswordExpiresAt:   &expired,
    })
    a := testAccounts(users, newFakeTokenStore(), okSender())

    res := a.ChangeTemporaryPassword(context.Background(), "temp@example.com", "SRtempPass1", "new password")
    assert.False(t, res.Success)
    assert.Contains(t, res.Message, "expired")
}

func TestResetPasswordFlow(t *testing.T) {
    users := newFakeUserStore()
    u := activeAdmin(t, users, "admin@example.com", "old password")
    tokens := newFakeTokenStore()
    a := testAccounts(users, tokens, okSender())

    // Missing account: silent, no token minted.
    require.NoError(t, a.RequestReset(context.Background(), "ghost@example.com"))
    assert.Empty(t, tokens.tokens)

    require.NoError(t, a.RequestReset(context.Background(), "admin@example.com"))
    require.Len(t, tokens.tokens, 1)

    var token string
    for k := range tokens.tokens {
        token = k
    }
    assert.Len(t, token, 64)
    assert.Equal(t, strings.ToLower(token), token)

    require.NoError(t, a.ResetPassword(context.Background(), token, "brand new pw"))
    stored, _ := users.GetByID(context.Background(), u.ID)
    assert.True(t, utils.VerifyPassword(stored.PasswordHash, "brand new pw"))

    // The token is single-use.
    err := a.ResetPassword(context.Background(), token, "again")
    assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestRequestResetSupersedesPriorToken(t *testing.T) {
    users := newFakeUserStore()
    activeAdmin(t, users, "admin@example.com", "pw")
    tokens := newFakeTokenStore()
    a := testAccounts(users, tokens, okSender())

    require.NoError(t, a.RequestReset(context.Background(), "admin@example.com"))
    require.NoError(t, a.RequestReset(context.Background(), "admin@example.com"))
    assert.Len(t, tokens.tokens, 1)
}

func TestToggleStatusValidation(t *testing.T) {
    users := newFakeUserStore()
    u := activeAdmin(t, users, "admin@example.com", "pw")
    a := testAccounts(users, newFakeTokenStore(), okSender())

    _, err := a.ToggleStatus(context.Background(), u.ID, "Suspended")
    assert.ErrorIs(t, err, ErrInvalidStatus)

    updated, err := a.ToggleStatus(context.Background(), u.ID, model.AccountInactive)
    require.NoError(t, err)
    assert.Equal(t, model.AccountInactive, updated.Status)
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
    users := newFakeUserStore()
    u := activeAdmin(t, users, "admin@example.com", "pw")
    a := testAccounts(users, newFakeTokenStore(), okSender())

    _, err := a.UpdateRole(context.Background(), u.ID, "owner")
    assert.ErrorIs(t, err, repository.ErrForbidden)

    updated, err := a.UpdateRole(context.Background(), u.ID, model.RoleSuperAdmin)
    require.NoError(t, err)
    assert.Equal(t, model.RoleSuperAdmin, updated.Role)
}

func TestRemoveAdmin(t *testing.T) {
    users := newFakeUserStore()
    u := activeAdmin(t, users, "admin@example.com", "pw")
    a := testAccounts(users, newFakeTokenStore(), okSender())

    require.NoError(t, a.RemoveAdmin(context.Background(), u.ID))
    err := a.RemoveAdmin(context.Background(), u.ID)
    assert.ErrorIs(t, err, repository.ErrNotFound)
}
