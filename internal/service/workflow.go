// Package service holds the business logic that sits between the HTTP
// handlers and the repositories: the application status workflow, the
// account lifecycle, and the audit-event publisher.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/smartrecruit/recruitment-backend/internal/mailer"
	"github.com/smartrecruit/recruitment-backend/internal/model"
	"github.com/smartrecruit/recruitment-backend/internal/queue"
	"github.com/smartrecruit/recruitment-backend/internal/repository"
)

// ErrNoResumeOrLink is returned when an application carries neither an
// uploaded resume path nor an external link.
var ErrNoResumeOrLink = errors.New("either resume file or external link must be provided")

// ErrInvalidStatus is returned for a status value outside the known set.
var ErrInvalidStatus = errors.New("invalid application status")

// CandidateStore is the slice of the candidate repository the workflow
// engine depends on. Tests substitute an in-memory fake.
type CandidateStore interface {
	Create(ctx context.Context, c *model.Candidate) error
	GetByID(ctx context.Context, id string) (model.Candidate, error)
	Exists(ctx context.Context, email, jobTitle string) (bool, error)
	Update(ctx context.Context, c *model.Candidate) error
	UpdateStatus(ctx context.Context, id string, status model.CandidateStatus) error
}

// Workflow is the status workflow engine. It applies status
// transitions, persists them, and coordinates the best-effort email
// notification: the store write always commits first, and a failed
// send degrades to EmailStatus.Success=false without affecting the
// saved change.
type Workflow struct {
	store   CandidateStore
	mail    mailer.Sender
	log     *zap.Logger
	publish func(context.Context, *zap.Logger, queue.ApplicationEvent) error
}

func NewWorkflow(store CandidateStore, mail mailer.Sender, log *zap.Logger) *Workflow {
	return &Workflow{store: store, mail: mail, log: log, publish: PublishApplicationEvent}
}

// StatusResult pairs the saved application with the outcome of the
// notification attempt. EmailStatus is nil when no notification was
// attempted (change-gated path with an unchanged status).
type StatusResult struct {
	Candidate   model.Candidate
	EmailStatus *mailer.Outcome
}

// EmailDetails optionally overrides the notification recipient and
// body on the explicit status-update path. A non-empty Content fully
// replaces the status template.
type EmailDetails struct {
	Content        string `json:"content"`
	RecipientEmail string `json:"recipientEmail"`
	RecipientName  string `json:"recipientName"`
}

// Submit validates and stores a new application. The advisory
// existence pre-check gives a friendly error for the common case; the
// unique key in the store remains the final authority and a racing
// insert still surfaces as ErrDuplicateApplication.
func (w *Workflow) Submit(ctx context.Context, c *model.Candidate) error {
	if c.ResumePath == "" && c.Link == "" {
		return ErrNoResumeOrLink
	}
	if c.Status == "" {
		c.Status = model.StatusReceived
	}
	if !model.ValidStatus(c.Status) {
		return ErrInvalidStatus
	}
	exists, err := w.store.Exists(ctx, c.Email, c.JobTitle)
	if err != nil {
		return err
	}
	if exists {
		return repository.ErrDuplicateApplication
	}
	if err := w.store.Create(ctx, c); err != nil {
		return err
	}
	_ = w.publish(ctx, w.log, queue.ApplicationEvent{
		Type:          queue.EventApplicationReceived,
		ApplicationID: c.ID,
		FullName:      c.FullName,
		Email:         c.Email,
		JobTitle:      c.JobTitle,
		Department:    c.Department,
		Status:        string(c.Status),
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// CandidateUpdate is a partial update; nil fields are left untouched.
type CandidateUpdate struct {
	FullName    *string                `json:"fullname"`
	Email       *string                `json:"email"`
	PhoneNumber *string                `json:"phoneNumber"`
	JobTitle    *string                `json:"jobTitle"`
	Department  *string                `json:"department"`
	Location    *string                `json:"location"`
	GPA         *float64               `json:"gpa"`
	Experience  *string                `json:"experience"`
	Skills      *string                `json:"skills"`
	CoverLetter *string                `json:"coverletter"`
	ResumePath  *string                `json:"resumepath"`
	Link        *string                `json:"link"`
	Status      *model.CandidateStatus `json:"status"`
}

// Update applies a partial field update. Notification on this path is
// change-gated: an email is attempted only when the patch moves the
// status to a different value. The status is persisted regardless of
// whether the notification later succeeds.
func (w *Workflow) Update(ctx context.Context, id string, patch CandidateUpdate) (StatusResult, error) {
	c, err := w.store.GetByID(ctx, id)
	if err != nil {
		return StatusResult{}, err
	}
	prev := c.Status
	applyPatch(&c, patch)
	if !model.ValidStatus(c.Status) {
		return StatusResult{}, ErrInvalidStatus
	}
	if err := w.store.Update(ctx, &c); err != nil {
		return StatusResult{}, err
	}

	res := StatusResult{Candidate: c}
	if patch.Status != nil && *patch.Status != prev {
		out := w.mail.SendStatusUpdate(ctx, c.Email, c.FullName, c.Status, c.JobTitle, "")
		res.EmailStatus = &out
		w.publishStatusChange(ctx, c, prev, out.Success)
	}
	return res, nil
}

// SetStatus is the explicit status entry point: it persists the new
// status and then always attempts one notification, regardless of
// whether the value changed. details may redirect the mail to a
// different recipient or replace the template body.
func (w *Workflow) SetStatus(ctx context.Context, id string, status model.CandidateStatus, details *EmailDetails) (StatusResult, error) {
	if !model.ValidStatus(status) {
		return StatusResult{}, ErrInvalidStatus
	}
	c, err := w.store.GetByID(ctx, id)
	if err != nil {
		return StatusResult{}, err
	}
	prev := c.Status
	if err := w.store.UpdateStatus(ctx, id, status); err != nil {
		return StatusResult{}, err
	}
	c.Status = status

	to, name, body := c.Email, c.FullName, ""
	if details != nil {
		if details.RecipientEmail != "" {
			to = details.RecipientEmail
		}
		if details.RecipientName != "" {
			name = details.RecipientName
		}
		body = details.Content
	}
	out := w.mail.SendStatusUpdate(ctx, to, name, status, c.JobTitle, body)
	w.publishStatusChange(ctx, c, prev, out.Success)
	return StatusResult{Candidate: c, EmailStatus: &out}, nil
}

func (w *Workflow) publishStatusChange(ctx context.Context, c model.Candidate, prev model.CandidateStatus, notified bool) {
	_ = w.publish(ctx, w.log, queue.ApplicationEvent{
		Type:          queue.EventStatusChanged,
		ApplicationID: c.ID,
		FullName:      c.FullName,
		Email:         c.Email,
		JobTitle:      c.JobTitle,
		Department:    c.Department,
		FromStatus:    string(prev),
		Status:        string(c.Status),
		Notified:      notified,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})
}

func applyPatch(c *model.Candidate, p CandidateUpdate) {
	if p.FullName != nil {
		c.FullName = *p.FullName
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.PhoneNumber != nil {
		c.PhoneNumber = *p.PhoneNumber
	}
	if p.JobTitle != nil {
		c.JobTitle = *p.JobTitle
	}
	if p.Department != nil {
		c.Department = *p.Department
	}
	if p.Location != nil {
		c.Location = *p.Location
	}
	if p.GPA != nil {
		c.GPA = *p.GPA
	}
	if p.Experience != nil {
		c.Experience = *p.Experience
	}
	if p.Skills != nil {
		c.Skills = *p.Skills
	}
	if p.CoverLetter != nil {
		c.CoverLetter = *p.CoverLetter
	}
	if p.ResumePath != nil {
		c.ResumePath = *p.ResumePath
	}
	if p.Link != nil {
		c.Link = *p.Link
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
}
