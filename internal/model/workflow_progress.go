// internal/model/workflow_progress.go
package model

import "time"

// WorkflowProgress statuses.
const (
	RunInProgress = "in_progress"
	RunCompleted  = "completed"
	RunError      = "error"
)

// StageResult is one entry in the ordered stage list of a run.
type StageResult struct {
	Step     string `json:"step"`
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Progress int    `json:"progress"`
}

// WorkflowProgress tracks one automation run, keyed by automation id.
// Single-writer: only the orchestrator running the automation mutates it;
// observers poll. Terminal once Status is completed or error.
type WorkflowProgress struct {
	AutomationID       int           `db:"automation_id" json:"automation_id"`
	Status             string        `db:"status" json:"status"`
	CurrentStage       string        `db:"current_stage" json:"current_stage"`
	Stages             []StageResult `db:"stages" json:"stages"`
	TotalUsersFound    int           `db:"total_users_found" json:"total_users_found"`
	TotalUsersAnalyzed int           `db:"total_users_analyzed" json:"total_users_analyzed"`
	TotalDMsSent       int           `db:"total_dms_sent" json:"total_dms_sent"`
	TotalDMsFailed     int           `db:"total_dms_failed" json:"total_dms_failed"`
	Progress           int           `db:"progress" json:"progress"`
	Error              string        `db:"error" json:"error,omitempty"`
	StartedAt          time.Time     `db:"started_at" json:"started_at"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updated_at"`
}

// Terminal reports whether the run can no longer be mutated.
func (p *WorkflowProgress) Terminal() bool {
	return p.Status == RunCompleted || p.Status == RunError
}
