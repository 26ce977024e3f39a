package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/ReeceHarding/leadify-sub002/internal/model"
)

type ProgressRepositoryInterface interface {
	Save(p *model.WorkflowProgress) error
	Get(automationID int) (*model.WorkflowProgress, error)
}

type ProgressRepository struct {
	DB *sql.DB
}

// Save upserts the whole progress document. The orchestrator is the only
// writer, so a full replace per stage boundary is safe.
func (r *ProgressRepository) Save(p *model.WorkflowProgress) error {
	stages, err := json.Marshal(p.Stages)
	if err != nil {
		return err
	}
	if p.Stages == nil {
		stages = []byte(`[]`)
	}
	p.UpdatedAt = time.Now()
	query := `
        INSERT INTO workflow_progress
        (automation_id, status, current_stage, stages, total_users_found, total_users_analyzed,
         total_dms_sent, total_dms_failed, progress, error, started_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        ON CONFLICT (automation_id) DO UPDATE SET
            status = EXCLUDED.status,
            current_stage = EXCLUDED.current_stage,
            stages = EXCLUDED.stages,
            total_users_found = EXCLUDED.total_users_found,
            total_users_analyzed = EXCLUDED.total_users_analyzed,
            total_dms_sent = EXCLUDED.total_dms_sent,
            total_dms_failed = EXCLUDED.total_dms_failed,
            progress = EXCLUDED.progress,
            error = EXCLUDED.error,
            started_at = EXCLUDED.started_at,
            updated_at = EXCLUDED.updated_at
    `
	_, err = r.DB.Exec(query,
		p.AutomationID, p.Status, p.CurrentStage, stages,
		p.TotalUsersFound, p.TotalUsersAnalyzed, p.TotalDMsSent, p.TotalDMsFailed,
		p.Progress, p.Error, p.StartedAt, p.UpdatedAt,
	)
	return err
}

// Get returns (nil, nil) when the automation has never run.
func (r *ProgressRepository) Get(automationID int) (*model.WorkflowProgress, error) {
	query := `
        SELECT automation_id, status, current_stage, stages, total_users_found, total_users_analyzed,
               total_dms_sent, total_dms_failed, progress, error, started_at, updated_at
        FROM workflow_progress WHERE automation_id=$1
    `
	var p model.WorkflowProgress
	var stages []byte
	err := r.DB.QueryRow(query, automationID).Scan(
		&p.AutomationID, &p.Status, &p.CurrentStage, &stages,
		&p.TotalUsersFound, &p.TotalUsersAnalyzed, &p.TotalDMsSent, &p.TotalDMsFailed,
		&p.Progress, &p.Error, &p.StartedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.Stages = []model.StageResult{}
	if len(stages) > 0 {
		if err := json.Unmarshal(stages, &p.Stages); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

var _ ProgressRepositoryInterface = (*ProgressRepository)(nil)
