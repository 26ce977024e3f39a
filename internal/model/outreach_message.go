// internal/model/outreach_message.go
package model

import "time"

// OutreachMessage statuses.
const (
	DMPending = "pending"
	DMSent    = "sent"
	DMFailed  = "failed"
	DMSkipped = "skipped"
)

// OutreachMessage is one attempted contact. The row is created with status
// pending before the send attempt so a crash mid-send still leaves an
// auditable record, then updated to sent/failed/skipped.
type OutreachMessage struct {
	ID             int        `db:"id" json:"id"`
	AutomationID   int        `db:"automation_id" json:"automation_id"`
	OrganizationID int        `db:"organization_id" json:"organization_id"`
	UserID         int        `db:"user_id" json:"user_id"`
	Recipient      string     `db:"recipient" json:"recipient"`
	SourcePostID   string     `db:"source_post_id" json:"source_post_id"`
	Community      string     `db:"community" json:"community"`
	Subject        string     `db:"subject" json:"subject"`
	Body           string     `db:"body" json:"body"`
	Status         string     `db:"status" json:"status"`
	SentAt         *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	LastError      string     `db:"last_error" json:"last_error,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}
