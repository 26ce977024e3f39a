// internal/model/monitor_post.go
package model

import "time"

// MonitorPost is a matched post recorded by a monitor sweep. Inserts are
// idempotent on (monitor_id, post_id) so re-scans never double-count.
type MonitorPost struct {
	ID        int       `db:"id" json:"id"`
	MonitorID int       `db:"monitor_id" json:"monitor_id"`
	PostID    string    `db:"post_id" json:"post_id"`
	Community string    `db:"community" json:"community"`
	Keyword   string    `db:"keyword" json:"keyword"`
	Author    string    `db:"author" json:"author"`
	Title     string    `db:"title" json:"title"`
	URL       string    `db:"url" json:"url"`
	PostedAt  time.Time `db:"posted_at" json:"posted_at"`
	FoundAt   time.Time `db:"found_at" json:"found_at"`
}
