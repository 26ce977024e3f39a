package repository

import (
	"database/sql"
	"time"

	"github.com/ReeceHarding/leadify-sub002/internal/model"
)

type OutreachRepositoryInterface interface {
	CreateMessage(msg *model.OutreachMessage) error
	MarkSent(id int, sentAt time.Time) error
	MarkFailed(id int, lastError string) error
	AppendHistory(h *model.OutreachHistory) error
	HasContacted(orgID int, recipient string) (bool, error)
	LastCommunitySendAt(orgID int, community string) (*time.Time, error)
	StatsByStatus(automationID int) (map[string]int, error)
}

type OutreachRepository struct {
	DB *sql.DB
}

// CreateMessage inserts the pending record before any send attempt is made.
func (r *OutreachRepository) CreateMessage(msg *model.OutreachMessage) error {
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	if msg.Status == "" {
		msg.Status = model.DMPending
	}
	query := `
        INSERT INTO outreach_messages
        (automation_id, organization_id, user_id, recipient, source_post_id, community,
         subject, body, status, last_error, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		msg.AutomationID, msg.OrganizationID, msg.UserID, msg.Recipient, msg.SourcePostID, msg.Community,
		msg.Subject, msg.Body, msg.Status, msg.LastError, msg.CreatedAt, msg.UpdatedAt,
	).Scan(&msg.ID)
}

func (r *OutreachRepository) MarkSent(id int, sentAt time.Time) error {
	query := `UPDATE outreach_messages SET status=$1, sent_at=$2, last_error='', updated_at=NOW() WHERE id=$3`
	_, err := r.DB.Exec(query, model.DMSent, sentAt, id)
	return err
}

func (r *OutreachRepository) MarkFailed(id int, lastError string) error {
	query := `UPDATE outreach_messages SET status=$1, last_error=$2, updated_at=NOW() WHERE id=$3`
	_, err := r.DB.Exec(query, model.DMFailed, lastError, id)
	return err
}

// AppendHistory adds a ledger row for a successful send. The ledger is
// append-only; a conflict on (organization_id, recipient) means the
// recipient was already recorded and is not an error.
func (r *OutreachRepository) AppendHistory(h *model.OutreachHistory) error {
	query := `
        INSERT INTO outreach_history (organization_id, automation_id, recipient, community, source_post_id, sent_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (organization_id, recipient) DO NOTHING
    `
	_, err := r.DB.Exec(query, h.OrganizationID, h.AutomationID, h.Recipient, h.Community, h.SourcePostID, h.SentAt)
	return err
}

// HasContacted is the dedup point lookup. Callers must fail closed when it
// returns an error.
func (r *OutreachRepository) HasContacted(orgID int, recipient string) (bool, error) {
	query := `SELECT 1 FROM outreach_history WHERE organization_id=$1 AND recipient=$2 LIMIT 1`
	var tmp int
	err := r.DB.QueryRow(query, orgID, recipient).Scan(&tmp)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// LastCommunitySendAt returns the most recent successful send into a
// community, or nil when there has never been one. The community posting
// window is derived from this, not stored separately.
func (r *OutreachRepository) LastCommunitySendAt(orgID int, community string) (*time.Time, error) {
	query := `SELECT MAX(sent_at) FROM outreach_history WHERE organization_id=$1 AND community=$2`
	var last sql.NullTime
	if err := r.DB.QueryRow(query, orgID, community).Scan(&last); err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}

func (r *OutreachRepository) StatsByStatus(automationID int) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM outreach_messages WHERE automation_id=$1 GROUP BY status`
	rows, err := r.DB.Query(query, automationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{"pending": 0, "sent": 0, "failed": 0, "skipped": 0}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

var _ OutreachRepositoryInterface = (*OutreachRepository)(nil)
