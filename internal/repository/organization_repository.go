package repository

import (
	"database/sql"

	appErrors "github.com/ReeceHarding/leadify-sub002/internal/errors"
	"github.com/ReeceHarding/leadify-sub002/internal/model"
)

// OrganizationRepositoryInterface defines methods used by services
type OrganizationRepositoryInterface interface {
	GetByID(id int) (*model.Organization, error)
	GetBusinessProfile(orgID int) (*model.BusinessProfile, error)
	GetTemplate(id int) (*model.MessageTemplate, error)
}

type OrganizationRepository struct {
	DB *sql.DB
}

func (r *OrganizationRepository) GetByID(id int) (*model.Organization, error) {
	query := `SELECT id, name, created_at FROM organizations WHERE id=$1`
	var o model.Organization
	err := r.DB.QueryRow(query, id).Scan(&o.ID, &o.Name, &o.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewOrganizationNotFound(id)
		}
		return nil, err
	}
	return &o, nil
}

// GetBusinessProfile returns (nil, nil) when the organization has no
// profile; the document is optional.
func (r *OrganizationRepository) GetBusinessProfile(orgID int) (*model.BusinessProfile, error) {
	query := `SELECT organization_id, summary, value_props, tone FROM business_profiles WHERE organization_id=$1`
	var p model.BusinessProfile
	err := r.DB.QueryRow(query, orgID).Scan(&p.OrganizationID, &p.Summary, &p.ValueProps, &p.Tone)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *OrganizationRepository) GetTemplate(id int) (*model.MessageTemplate, error) {
	query := `
        SELECT id, organization_id, name, subject, body, follow_up, created_at
        FROM message_templates WHERE id=$1
    `
	var t model.MessageTemplate
	err := r.DB.QueryRow(query, id).Scan(&t.ID, &t.OrganizationID, &t.Name, &t.Subject, &t.Body, &t.FollowUp, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewTemplateNotFound(id)
		}
		return nil, err
	}
	return &t, nil
}

var _ OrganizationRepositoryInterface = (*OrganizationRepository)(nil)
