// Package queue defines message payloads exchanged over the message broker.
package queue

// Audit event types published by the recruitment service.
const (
	EventApplicationReceived = "application.received"
	EventStatusChanged       = "application.status_changed"
)

// ApplicationEvent is published when an application is submitted or its
// workflow status changes. It carries enough information for downstream
// consumers to log, notify, or feed analytics without querying the
// primary database.
type ApplicationEvent struct {
	Type          string `json:"type"`
	ApplicationID string `json:"application_id"`
	FullName      string `json:"fullname"`
	Email         string `json:"email"`
	JobTitle      string `json:"job_title"`
	Department    string `json:"department"`
	FromStatus    string `json:"from_status,omitempty"`
	Status        string `json:"status"`
	Notified      bool   `json:"notified"`
	OccurredAt    string `json:"occurred_at"`
}
