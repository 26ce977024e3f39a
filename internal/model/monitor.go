// internal/model/monitor.go
package model

import "time"

// CheckFrequency values accepted on a monitor.
const (
	Freq30Min   = "30min"
	Freq1Hour   = "1hour"
	Freq2Hours  = "2hours"
	Freq4Hours  = "4hours"
	Freq6Hours  = "6hours"
	Freq12Hours = "12hours"
)

// FrequencyDuration maps a frequency value to its interval. Unknown values
// fall back to one hour.
func FrequencyDuration(freq string) time.Duration {
	switch freq {
	case Freq30Min:
		return 30 * time.Minute
	case Freq1Hour:
		return time.Hour
	case Freq2Hours:
		return 2 * time.Hour
	case Freq4Hours:
		return 4 * time.Hour
	case Freq6Hours:
		return 6 * time.Hour
	case Freq12Hours:
		return 12 * time.Hour
	default:
		return time.Hour
	}
}

// Monitor is the per-campaign scheduled check. Exactly one exists per
// campaign; disabling sets Enabled=false, monitors are never hard-deleted.
type Monitor struct {
	ID             int    `db:"id" json:"id"`
	CampaignID     int    `db:"campaign_id" json:"campaign_id"`
	OrganizationID int    `db:"organization_id" json:"organization_id"`
	Enabled        bool   `db:"enabled" json:"enabled"`
	CheckFrequency string `db:"check_frequency" json:"check_frequency"`
	Priority       int    `db:"priority" json:"priority"`

	// SourceCursors maps "keyword|community" -> last seen post id, for
	// incremental scans. Stored as JSONB.
	SourceCursors map[string]string `db:"source_cursors" json:"source_cursors"`

	LastCheckAt            *time.Time `db:"last_check_at" json:"last_check_at,omitempty"`
	NextCheckAt            time.Time  `db:"next_check_at" json:"next_check_at"`
	LastPostFoundAt        *time.Time `db:"last_post_found_at" json:"last_post_found_at,omitempty"`
	ConsecutiveEmptyChecks int        `db:"consecutive_empty_checks" json:"consecutive_empty_checks"`
	TotalChecks            int        `db:"total_checks" json:"total_checks"`
	TotalPostsFound        int        `db:"total_posts_found" json:"total_posts_found"`
	APICallsToday          int        `db:"api_calls_today" json:"api_calls_today"`
	APICallsMonth          int        `db:"api_calls_month" json:"api_calls_month"`
	LastAPIReset           time.Time  `db:"last_api_reset" json:"last_api_reset"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// CheckResult is the outcome of one monitor check, fed to RecordCheck.
type CheckResult struct {
	PostsFound    int
	NewPostsAdded int
	APICallsUsed  int
	Success       bool
	Error         string
}
