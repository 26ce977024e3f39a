package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	appErrors "github.com/ReeceHarding/leadify-sub002/internal/errors"
	"github.com/ReeceHarding/leadify-sub002/internal/model"
)

type CampaignRepositoryInterface interface {
	GetByID(id int) (*model.Campaign, error)
	Create(c *model.Campaign) error
	UpdateStatus(campaignID int, status string) error
}

type CampaignRepository struct {
	DB *sql.DB
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = "draft"
	}
	query := `
        INSERT INTO campaigns (organization_id, name, keywords, target_communities, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	return r.DB.QueryRow(query, c.OrganizationID, c.Name, pq.Array(c.Keywords), pq.Array(c.TargetCommunities), c.Status, c.CreatedAt).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `
        SELECT id, organization_id, name, keywords, target_communities, status, created_at, updated_at
        FROM campaigns WHERE id=$1
    `
	var c model.Campaign
	err := r.DB.QueryRow(query, id).Scan(
		&c.ID, &c.OrganizationID, &c.Name,
		pq.Array(&c.Keywords), pq.Array(&c.TargetCommunities),
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) UpdateStatus(campaignID int, status string) error {
	query := `UPDATE campaigns SET status=$1, updated_at=$2 WHERE id=$3`
	_, err := r.DB.Exec(query, status, time.Now(), campaignID)
	return err
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
