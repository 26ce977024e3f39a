package appErrors

import "fmt"

// ErrAutomationNotFound is a sentinel error
type ErrAutomationNotFound struct {
	AutomationID int
}

func (e *ErrAutomationNotFound) Error() string {
	return fmt.Sprintf("automation with ID %d not found", e.AutomationID)
}

func NewAutomationNotFound(id int) error {
	return &ErrAutomationNotFound{AutomationID: id}
}

// ErrTemplateNotFound is a sentinel error
type ErrTemplateNotFound struct {
	TemplateID int
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("message template with ID %d not found", e.TemplateID)
}

func NewTemplateNotFound(id int) error {
	return &ErrTemplateNotFound{TemplateID: id}
}

// ErrOrganizationNotFound is a sentinel error
type ErrOrganizationNotFound struct {
	OrganizationID int
}

func (e *ErrOrganizationNotFound) Error() string {
	return fmt.Sprintf("organization with ID %d not found", e.OrganizationID)
}

func NewOrganizationNotFound(id int) error {
	return &ErrOrganizationNotFound{OrganizationID: id}
}

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}
