// internal/model/automation.go
package model

import "time"

// Automation is one configured outreach campaign: keywords to search,
// communities to search them in, a template to personalize, and a daily
// send cap. DmsSentToday resets the first time a run observes LastResetAt
// on a prior UTC calendar day.
type Automation struct {
	ID                int        `db:"id" json:"id"`
	OrganizationID    int        `db:"organization_id" json:"organization_id"`
	UserID            int        `db:"user_id" json:"user_id"`
	Name              string     `db:"name" json:"name"`
	Keywords          []string   `db:"keywords" json:"keywords"`
	TargetCommunities []string   `db:"target_communities" json:"target_communities"`
	TemplateID        int        `db:"template_id" json:"template_id"`
	MaxDailyDMs       int        `db:"max_daily_dms" json:"max_daily_dms"`
	DmsSentToday      int        `db:"dms_sent_today" json:"dms_sent_today"`
	LastResetAt       time.Time  `db:"last_reset_at" json:"last_reset_at"`
	IsActive          bool       `db:"is_active" json:"is_active"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
