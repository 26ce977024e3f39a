package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/ReeceHarding/leadify-sub002/internal/model"
)

type MonitorRepositoryInterface interface {
	GetByCampaignID(campaignID int) (*model.Monitor, error)
	Upsert(m *model.Monitor) error
	SelectDue(now time.Time) ([]*model.Monitor, error)
	Update(m *model.Monitor) error
	AppendCheckLog(entry *model.MonitorCheckLog) error
	InsertPost(p *model.MonitorPost) (bool, error)
}

type MonitorRepository struct {
	DB *sql.DB
}

const monitorColumns = `
    id, campaign_id, organization_id, enabled, check_frequency, priority,
    source_cursors, last_check_at, next_check_at, last_post_found_at,
    consecutive_empty_checks, total_checks, total_posts_found,
    api_calls_today, api_calls_month, last_api_reset, created_at, updated_at
`

func (r *MonitorRepository) scanMonitor(row interface{ Scan(...any) error }) (*model.Monitor, error) {
	var m model.Monitor
	var cursors []byte
	err := row.Scan(
		&m.ID, &m.CampaignID, &m.OrganizationID, &m.Enabled, &m.CheckFrequency, &m.Priority,
		&cursors, &m.LastCheckAt, &m.NextCheckAt, &m.LastPostFoundAt,
		&m.ConsecutiveEmptyChecks, &m.TotalChecks, &m.TotalPostsFound,
		&m.APICallsToday, &m.APICallsMonth, &m.LastAPIReset, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.SourceCursors = map[string]string{}
	if len(cursors) > 0 {
		if err := json.Unmarshal(cursors, &m.SourceCursors); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// GetByCampaignID returns (nil, nil) when no monitor exists for the
// campaign yet.
func (r *MonitorRepository) GetByCampaignID(campaignID int) (*model.Monitor, error) {
	query := `SELECT ` + monitorColumns + ` FROM monitors WHERE campaign_id=$1`
	m, err := r.scanMonitor(r.DB.QueryRow(query, campaignID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// Upsert creates or updates the one monitor for a campaign. Creation
// initializes next_check_at to now + frequency.
func (r *MonitorRepository) Upsert(m *model.Monitor) error {
	cursors, err := json.Marshal(m.SourceCursors)
	if err != nil {
		return err
	}
	if m.SourceCursors == nil {
		cursors = []byte(`{}`)
	}
	query := `
        INSERT INTO monitors (campaign_id, organization_id, enabled, check_frequency, priority,
            source_cursors, next_check_at, last_api_reset, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        ON CONFLICT (campaign_id) DO UPDATE SET
            enabled = EXCLUDED.enabled,
            check_frequency = EXCLUDED.check_frequency,
            priority = EXCLUDED.priority,
            updated_at = NOW()
        RETURNING id, next_check_at, created_at
    `
	return r.DB.QueryRow(query,
		m.CampaignID, m.OrganizationID, m.Enabled, m.CheckFrequency, m.Priority,
		cursors, m.NextCheckAt,
	).Scan(&m.ID, &m.NextCheckAt, &m.CreatedAt)
}

// SelectDue returns enabled monitors whose next_check_at has passed. No
// ordering guarantee across monitors.
func (r *MonitorRepository) SelectDue(now time.Time) ([]*model.Monitor, error) {
	query := `SELECT ` + monitorColumns + ` FROM monitors WHERE enabled = TRUE AND next_check_at <= $1`
	rows, err := r.DB.Query(query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	monitors := []*model.Monitor{}
	for rows.Next() {
		m, err := r.scanMonitor(rows)
		if err != nil {
			return nil, err
		}
		monitors = append(monitors, m)
	}
	return monitors, rows.Err()
}

func (r *MonitorRepository) Update(m *model.Monitor) error {
	cursors, err := json.Marshal(m.SourceCursors)
	if err != nil {
		return err
	}
	query := `
        UPDATE monitors
        SET enabled=$1, check_frequency=$2, priority=$3, source_cursors=$4,
            last_check_at=$5, next_check_at=$6, last_post_found_at=$7,
            consecutive_empty_checks=$8, total_checks=$9, total_posts_found=$10,
            api_calls_today=$11, api_calls_month=$12, last_api_reset=$13,
            updated_at=NOW()
        WHERE id=$14
    `
	_, err = r.DB.Exec(query,
		m.Enabled, m.CheckFrequency, m.Priority, cursors,
		m.LastCheckAt, m.NextCheckAt, m.LastPostFoundAt,
		m.ConsecutiveEmptyChecks, m.TotalChecks, m.TotalPostsFound,
		m.APICallsToday, m.APICallsMonth, m.LastAPIReset,
		m.ID,
	)
	return err
}

func (r *MonitorRepository) AppendCheckLog(entry *model.MonitorCheckLog) error {
	query := `
        INSERT INTO monitor_check_logs (monitor_id, status, posts_found, new_posts_added, api_calls_used, error, checked_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		entry.MonitorID, entry.Status, entry.PostsFound, entry.NewPostsAdded,
		entry.APICallsUsed, entry.Error, entry.CheckedAt,
	).Scan(&entry.ID)
}

// InsertPost records a matched post. Returns false when the post was
// already recorded for this monitor.
func (r *MonitorRepository) InsertPost(p *model.MonitorPost) (bool, error) {
	query := `
        INSERT INTO monitor_posts (monitor_id, post_id, community, keyword, author, title, url, posted_at, found_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (monitor_id, post_id) DO NOTHING
    `
	res, err := r.DB.Exec(query,
		p.MonitorID, p.PostID, p.Community, p.Keyword, p.Author, p.Title, p.URL, p.PostedAt, p.FoundAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ MonitorRepositoryInterface = (*MonitorRepository)(nil)
