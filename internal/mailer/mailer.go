// Package mailer is the notification gateway: it renders status-change
// templates and delivers them over SMTP. Every send is best-effort —
// transport failures are logged and converted into an Outcome, never
// propagated to the caller, so a failed email can never roll back or
// fail the state change that triggered it.
package mailer

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/smartrecruit/recruitment-backend/internal/config"
	"github.com/smartrecruit/recruitment-backend/internal/model"
)

// Outcome reports the result of one notification attempt. It is
// returned alongside the primary payload so callers can distinguish
// "state changed" from "state changed and notified".
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Sender is the contract the workflow engine and account service
// depend on. Tests substitute a recording fake.
type Sender interface {
	SendStatusUpdate(ctx context.Context, to, name string, status model.CandidateStatus, jobTitle, customBody string) Outcome
	SendAdminWelcome(ctx context.Context, to, role, temporaryPassword string) Outcome
	SendTemporaryPassword(ctx context.Context, to, temporaryPassword string) Outcome
}

// Mailer sends mail through a configured SMTP relay. Credentials and
// the sender identity come from the injected Config; there is no
// package-level transport state.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
	log  *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) *Mailer {
	return &Mailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.MailFrom,
		log:  log,
	}
}

// SendStatusUpdate delivers a status-change notification. When
// customBody is non-empty it fully replaces the default template.
func (m *Mailer) SendStatusUpdate(ctx context.Context, to, name string, status model.CandidateStatus, jobTitle, customBody string) Outcome {
	body := customBody
	if body == "" {
		body = StatusUpdateBody(name, jobTitle, status)
	}
	subject := StatusUpdateSubject(status)
	if err := m.send(ctx, to, subject, body); err != nil {
		m.log.Warn("status update email failed", zap.String("to", to), zap.Error(err))
		return Outcome{Success: false, Message: "Failed to send email notification"}
	}
	return Outcome{Success: true, Message: fmt.Sprintf("Email sent successfully to %s", to)}
}

// SendAdminWelcome delivers the one-time plaintext temporary password
// to a newly created admin account.
func (m *Mailer) SendAdminWelcome(ctx context.Context, to, role, temporaryPassword string) Outcome {
	if err := m.send(ctx, to, "Welcome to Smart Recruit Admin Panel", adminWelcomeBody(role, temporaryPassword)); err != nil {
		m.log.Warn("admin welcome email failed", zap.String("to", to), zap.Error(err))
		return Outcome{Success: false, Message: "Failed to send welcome email"}
	}
	return Outcome{Success: true, Message: fmt.Sprintf("Email sent successfully to %s", to)}
}

// SendTemporaryPassword delivers a forgot-password temporary credential.
func (m *Mailer) SendTemporaryPassword(ctx context.Context, to, temporaryPassword string) Outcome {
	if err := m.send(ctx, to, "Temporary Password - Smart Recruit", temporaryPasswordBody(temporaryPassword)); err != nil {
		m.log.Warn("temporary password email failed", zap.String("to", to), zap.Error(err))
		return Outcome{Success: false, Message: "Failed to send temporary password email"}
	}
	return Outcome{Success: true, Message: fmt.Sprintf("Email sent successfully to %s", to)}
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat("Smart Recruit", m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if m.user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.user),
			mail.WithPassword(m.pass))
	}
	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}
