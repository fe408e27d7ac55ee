// internal/models/notification.go
package models

import "time"

// NotificationKind distinguishes toast styles shown to the operator.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a transient, operator-facing message.
type Notification struct {
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
}

// DecisionNotice is what an applicant receives once their application is decided.
type DecisionNotice struct {
	ApplicationID string            `json:"application_id"`
	Recipient     string            `json:"recipient"`
	Channel       string            `json:"channel"` // "email", "sms"
	Status        ApplicationStatus `json:"status"`
	Subject       string            `json:"subject,omitempty"`
	Body          string            `json:"body"`
}
