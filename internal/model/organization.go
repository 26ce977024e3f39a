// internal/model/organization.go
package model

import "time"

type Organization struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BusinessProfile is the optional personalization context document for an
// organization. Its absence degrades personalization but is never fatal.
type BusinessProfile struct {
	OrganizationID int    `db:"organization_id" json:"organization_id"`
	Summary        string `db:"summary" json:"summary"`
	ValueProps     string `db:"value_props" json:"value_props"`
	Tone           string `db:"tone" json:"tone"`
}
