package core

import "time"

type AuditEntry struct {
	// ID is the unique request ID (X-Correlation-ID)
	ID string `json:"id"`

	// Time is the timestamp of the event
	Time time.Time `json:"time"`

	// Action describing what happened (e.g. "token.issue", "contest.confirm")
	Action string `json:"action"`

	// Actor is the email of the authenticated caller, if any
	Actor string `json:"actor,omitempty"`

	// Subject identifies the affected record (user email or contest id)
	Subject string `json:"subject,omitempty"`

	Granted bool   `json:"granted"`
	Error   string `json:"error,omitempty"`

	// TokenFingerprint identifies an issued token without storing it
	TokenFingerprint string `json:"token_fingerprint,omitempty"`

	// Metadata contains extra details (e.g. new role, participant count)
	Metadata map[string]any `json:"metadata,omitempty"`
}

type Auditor interface {
	Log(entry AuditEntry) error
	Close() error
}
