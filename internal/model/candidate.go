// internal/model/candidate.go
package model

import "time"

// Candidate is a discovered potential recipient before eligibility
// filtering.
type Candidate struct {
	Recipient string    `json:"recipient"`
	PostID    string    `json:"post_id"`
	PostTitle string    `json:"post_title"`
	PostURL   string    `json:"post_url"`
	Community string    `json:"community"`
	Keyword   string    `json:"keyword"`
	CreatedAt time.Time `json:"created_at"`
}
