package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	appErrors "github.com/ReeceHarding/leadify-sub002/internal/errors"
	"github.com/ReeceHarding/leadify-sub002/internal/model"
)

type AutomationRepositoryInterface interface {
	GetByID(id int) (*model.Automation, error)
	Create(a *model.Automation) error
	SetActive(id int, active bool) error
	ReserveDailySend(id int, now time.Time) (bool, error)
}

type AutomationRepository struct {
	DB *sql.DB
}

func (r *AutomationRepository) Create(a *model.Automation) error {
	a.CreatedAt = time.Now()
	if a.LastResetAt.IsZero() {
		a.LastResetAt = a.CreatedAt
	}
	query := `
        INSERT INTO automations (organization_id, user_id, name, keywords, target_communities,
            template_id, max_daily_dms, dms_sent_today, last_reset_at, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		a.OrganizationID, a.UserID, a.Name, pq.Array(a.Keywords), pq.Array(a.TargetCommunities),
		a.TemplateID, a.MaxDailyDMs, a.LastResetAt, a.IsActive, a.CreatedAt,
	).Scan(&a.ID)
}

func (r *AutomationRepository) GetByID(id int) (*model.Automation, error) {
	query := `
        SELECT id, organization_id, user_id, name, keywords, target_communities,
               template_id, max_daily_dms, dms_sent_today, last_reset_at, is_active,
               created_at, updated_at
        FROM automations WHERE id=$1
    `
	var a model.Automation
	err := r.DB.QueryRow(query, id).Scan(
		&a.ID, &a.OrganizationID, &a.UserID, &a.Name,
		pq.Array(&a.Keywords), pq.Array(&a.TargetCommunities),
		&a.TemplateID, &a.MaxDailyDMs, &a.DmsSentToday, &a.LastResetAt, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewAutomationNotFound(id)
		}
		return nil, err
	}
	return &a, nil
}

func (r *AutomationRepository) SetActive(id int, active bool) error {
	query := `UPDATE automations SET is_active=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.DB.Exec(query, active, id)
	return err
}

// ReserveDailySend atomically consumes one unit of the daily budget. The
// single conditional UPDATE also performs the UTC day-boundary reset, so
// concurrent callers can never push dms_sent_today past max_daily_dms.
// Returns false when the budget is exhausted; that is a normal signal, not
// an error.
func (r *AutomationRepository) ReserveDailySend(id int, now time.Time) (bool, error) {
	query := `
        UPDATE automations
        SET dms_sent_today = CASE
                WHEN (last_reset_at AT TIME ZONE 'UTC')::date < ($2::timestamptz AT TIME ZONE 'UTC')::date THEN 1
                ELSE dms_sent_today + 1
            END,
            last_reset_at = CASE
                WHEN (last_reset_at AT TIME ZONE 'UTC')::date < ($2::timestamptz AT TIME ZONE 'UTC')::date THEN $2
                ELSE last_reset_at
            END,
            updated_at = NOW()
        WHERE id = $1
          AND ((last_reset_at AT TIME ZONE 'UTC')::date < ($2::timestamptz AT TIME ZONE 'UTC')::date
               OR dms_sent_today < max_daily_dms)
          AND max_daily_dms > 0
    `
	res, err := r.DB.Exec(query, id, now.UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ AutomationRepositoryInterface = (*AutomationRepository)(nil)
