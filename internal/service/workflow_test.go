package service

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap"

    "github.com/smartrecruit/recruitment-backend/internal/mailer"
    "github.com/smartrecruit/recruitment-backend/internal/model"
    "github.com/smartrecruit/recruitment-backend/internal/queue"
    "github.com/smartrecruit/recruitment-backend/internal/repository"
)

// fakeCandidateStore is an in-memory CandidateStore.
type fakeCandidateStore struct {
    byID    map[string]model.Candidate
    created []model.Candidate
}

func newFakeCandidateStore() *fakeCandidateStore {
    return &fakeCandidateStore{byID: map[string]model.Candidate{}}
}

func (s *fakeCandidateStore) Create(_ context.Context, c *model.Candidate) error {
    if c.ID == "" {
        c.ID = "cand-1"
    }
    s.byID[c.ID] = *c
    s.created = append(s.created, *c)
    return nil
}

func (s *fakeCandidateStore) GetByID(_ context.Context, id string) (model.Candidate, error) {
    c, ok := s.byID[id]
    if !ok {
        return model.Candidate{}, repository.ErrNotFound
    }
    return c, nil
}

func (s *fakeCandidateStore) Exists(_ context.Context, email, jobTitle string) (bool, error) {
    for _, c := range s.byID {
        if c.Email == email && c.JobTitle == jobTitle {
            return true, nil
        }
    }
    return false, nil
}

func (s *fakeCandidateStore) Update(_ context.Context, c *model.Candidate) error {
    if _, ok := s.byID[c.ID]; !ok {
        return repository.ErrNotFound
    }
    s.byID[c.ID] = *c
    return nil
}

func (s *fakeCandidateStore) UpdateStatus(_ context.Context, id string, status model.CandidateStatus) error {
    c, ok := s.byID[id]
    if !ok {
        return repository.ErrNotFound
    }
    c.Status = status
    s.byID[id] = c
    return nil
}

// fakeSender records every send and returns a configurable outcome.
type fakeSender struct {
    outcome mailer.Outcome
    statusSends []struct {
        To, Name, Body string
        Status         model.CandidateStatus
    }
    welcomeSends int
    tempSends    int
}

func okSender() *fakeSender {
    return &fakeSender{outcome: mailer.Outcome{Success: true, Message: "Email sent successfully"}}
}

func (f *fakeSender) SendStatusUpdate(_ context.Context, to, name string, status model.CandidateStatus, _ string, customBody string) mailer.Outcome {
    f.statusSends = append(f.statusSends, struct {
        To, Name, Body string
        Status         model.CandidateStatus
    }{to, name, customBody, status})
    return f.outcome
}

func (f *fakeSender) SendAdminWelcome(_ context.Context, _, _, _ string) mailer.Outcome {
    f.welcomeSends++
    return f.outcome
}

func (f *fakeSender) SendTemporaryPassword(_ context.Context, _, _ string) mailer.Outcome {
    f.tempSends++
    return f.outcome
}

func newTestWorkflow(store CandidateStore, mail mailer.Sender) *Workflow {
    w := NewWorkflow(store, mail, zap.NewNop())
    w.publish = func(context.Context, *zap.Logger, queue.ApplicationEvent) error { return nil }
    return w
}

func validCandidate() model.Candidate {
    return model.Candidate{
        FullName:    "Abebe Kebede",
        Email:       "abebe@example.com",
        PhoneNumber: "+251911223344",
        JobTitle:    "Backend Engineer",
        Department:  "Engineering",
        GPA:         3.4,
        Link:        "https://example.com/cv",
    }
}

func TestSubmitRequiresResumeOrLink(t *testing.T) {
    w := newTestWorkflow(newFakeCandidateStore(), okSender())

    c := validCandidate()
    c.Link = ""
    c.ResumePath = ""

    err := w.Submit(context.Background(), &c)
    assert.ErrorIs(t, err, ErrNoResumeOrLink)
}

func TestSubmitDefaultsStatusToReceived(t *testing.T) {
    store := newFakeCandidateStore()
    w := newTestWorkflow(store, okSender())

    c := validCandidate()
    require.NoError(t, w.Submit(context.Background(), &c))

    assert.Equal(t, model.StatusReceived, c.Status)
    require.Len(t, store.created, 1)
    assert.Equal(t, model.StatusReceived, store.created[0].Status)
}

func TestSubmitRejectsUnknownStatus(t *testing.T) {
    w := newTestWorkflow(newFakeCandidateStore(), okSender())

    c := validCandidate()
    c.Status = "Hired"

    err := w.Submit(context.Background(), &c)
    assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSubmitRejectsDuplicateApplication(t *testing.T) {
    store := newFakeCandidateStore()
    w := newTestWorkflow(store, okSender())

    first := validCandidate()
    require.NoError(t, w.Submit(context.Background(), &first))

    second := validCandidate()
    err := w.Submit(context.Background(), &second)
    assert.ErrorIs(t, err, repository.ErrDuplicateApplication)
}

func TestSubmitAllowsSameEmailDifferentJob(t *testing.T) {
    store := newFakeCandidateStore()
    w := newTestWorkflow(store, okSender())

    first := validCandidate()
    require.NoError(t, w.Submit(context.Background(), &first))

    second := validCandidate()
    second.JobTitle = "Frontend Engineer"
    assert.NoError(t, w.Submit(context.Background(), &second))
}

func TestUpdateNotifiesOnlyOnStatusChange(t *testing.T) {
    store := newFakeCandidateStore()
    mail := okSender()
    w := newTestWorkflow(store, mail)

    c := validCandidate()
    require.NoError(t, w.Submit(context.Background(), &c))

    // Patch without a status change: no mail.
    dept := "Platform"
    res, err := w.Update(context.Background(), c.ID, CandidateUpdate{Department: &dept})
    require.NoError(t, err)
    assert.Nil(t, res.EmailStatus)
    assert.Empty(t, mail.statusSends)
    assert.Equal(t, "Platform", res.Candidate.Department)

    // Patch moving the status: exactly one mail.
    st := model.StatusInterview
    res, err = w.Update(context.Background(), c.ID, CandidateUpdate{Status: &st})
    require.NoError(t, err)
    require.NotNil(t, res.EmailStatus)
    assert.True(t, res.EmailStatus.Success)
    require.Len(t, mail.statusSends, 1)
    assert.Equal(t, c.Email, mail.statusSends[0].To)
    assert.Equal(t, model.StatusInterview, mail.statusSends[0].Status)

    // Same status again through the patch path: still one mail.
    _, err = w.Update(context.Background(), c.ID, CandidateUpdate{Status: &st})
    require.NoError(t, err)
    assert.Len(t, mail.statusSends, 1)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
    store := newFakeCandidateStore()
    w := newTestWorkflow(store, okSender())

    c := validCandidate()
    require.NoError(t, w.Submit(context.Background(), &c))

    bad := model.CandidateStatus("Ghosted")
    _, err := w.Update(context.Background(), c.ID, CandidateUpdate{Status: &bad})
    assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateMissingCandidate(t *testing.T) {
    w := newTestWorkflow(newFakeCandidateStore(), okSender())

    _, err := w.Update(context.Background(), "nope", CandidateUpdate{})
    assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSetStatusAlwaysNotifies(t *testing.T) {
    store := newFakeCandidateStore()
    mail := okSender()
    w := newTestWorkflow(store, mail)

    c := validCandidate()
    require.NoError(t, w.Submit(context.Background(), &c))

    // Setting the current value still sends a notification.
    res, err := w.SetStatus(context.Background(), c.ID, model.StatusReceived, nil)
    require.NoError(t, err)
    require.NotNil(t, res.EmailStatus)
    assert.Len(t, mail.statusSends, 1)

    res, err = w.SetStatus(context.Background(), c.ID, model.StatusAccepted, nil)
    require.NoError(t, err)
    assert.Equal(t, model.StatusAccepted, res.Candidate.Status)
    assert.Len(t, mail.statusSends, 2)

    stored, err := store.GetByID(context.Background(), c.ID)
    require.NoError(t, err)
    assert.Equal(t, model.StatusAccepted, stored.Status)
}

func TestSetStatusEmailDetailsOverride(t *testing.T) {
    store := newFakeCandidateStore()
    mail := okSender()
    w := newTestWorkflow(store, mail)

    c := validCandidate()
    require.NoError(t, w.Submit(context.Background(), &c))

    details := &EmailDetails{
        Content:        "Custom congratulations body",
        RecipientEmail: "other@example.com",
        RecipientName:  "Someone Else",
    }
    _, err := w.SetStatus(context.Background(), c.ID, model.StatusAccepted, details)
    require.NoError(t, err)

    require.Len(t, mail.statusSends, 1)
    assert.Equal(t, "other@example.com", mail.statusSends[0].To)
    assert.Equal(t, "Custom congratulations body", mail.statusSends[0].Body)
}

func TestSetStatusPersistsEvenWhenMailFails(t *testing.T) {
    store := newFakeCandidateStore()
    mail := &fakeSender{outcome: mailer.Outcome{Success: false, Message: "Failed to send email notification"}}
    w := newTestWorkflow(store, mail)

    c := validCandidate()
    require.NoError(t, w.Submit(context.Background(), &c))

    res, err := w.SetStatus(context.Background(), c.ID, model.StatusRejected, nil)
    require.NoError(t, err)
    require.NotNil(t, res.EmailStatus)
    assert.False(t, res.EmailStatus.Success)

    stored, err := store.GetByID(context.Background(), c.ID)
    require.NoError(t, err)
    assert.Equal(t, model.StatusRejected, stored.Status)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
    w := newTestWorkflow(newFakeCandidateStore(), okSender())
    _, err := w.SetStatus(context.Background(), "any", "Filed", nil)
    assert.ErrorIs(t, err, ErrInvalidStatus)
}
