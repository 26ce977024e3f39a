// internal/model/campaign.go
package model

import "time"

type Campaign struct {
	ID                int        `db:"id" json:"id"`
	OrganizationID    int        `db:"organization_id" json:"organization_id"`
	Name              string     `db:"name" json:"name"`
	Keywords          []string   `db:"keywords" json:"keywords"`
	TargetCommunities []string   `db:"target_communities" json:"target_communities"`
	Status            string     `db:"status" json:"status"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
