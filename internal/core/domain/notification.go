package domain

import "time"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// DefaultNotificationDuration applies when a notification is shown without a duration.
const DefaultNotificationDuration = 3 * time.Second

type Notification struct {
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	Visible  bool      `json:"visible"`
	ShownAt  time.Time `json:"shown_at,omitempty"`
}
