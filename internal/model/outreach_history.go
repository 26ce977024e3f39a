// internal/model/outreach_history.go
package model

import "time"

// OutreachHistory is the append-only ledger of successfully sent messages,
// keyed by (organization, recipient). It is the source of truth for the
// dedup guard and, via Community+SentAt, for the community cooldown window.
// Rows are never updated or deleted.
type OutreachHistory struct {
	ID             int       `db:"id" json:"id"`
	OrganizationID int       `db:"organization_id" json:"organization_id"`
	AutomationID   int       `db:"automation_id" json:"automation_id"`
	Recipient      string    `db:"recipient" json:"recipient"`
	Community      string    `db:"community" json:"community"`
	SourcePostID   string    `db:"source_post_id" json:"source_post_id"`
	SentAt         time.Time `db:"sent_at" json:"sent_at"`
}
