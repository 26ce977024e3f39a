// internal/model/message_template.go
package model

import "time"

type MessageTemplate struct {
	ID             int       `db:"id" json:"id"`
	OrganizationID int       `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name" json:"name"`
	Subject        string    `db:"subject" json:"subject"`
	Body           string    `db:"body" json:"body"`
	FollowUp       string    `db:"follow_up" json:"follow_up,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
