// internal/model/monitor_check_log.go
package model

import "time"

// MonitorCheckLog is one row of the append-only check ledger, the only
// audit trail for monitor health. Written for failed checks too.
type MonitorCheckLog struct {
	ID            int       `db:"id" json:"id"`
	MonitorID     int       `db:"monitor_id" json:"monitor_id"`
	Status        string    `db:"status" json:"status"` // ok, failed
	PostsFound    int       `db:"posts_found" json:"posts_found"`
	NewPostsAdded int       `db:"new_posts_added" json:"new_posts_added"`
	APICallsUsed  int       `db:"api_calls_used" json:"api_calls_used"`
	Error         string    `db:"error" json:"error,omitempty"`
	CheckedAt     time.Time `db:"checked_at" json:"checked_at"`
}
