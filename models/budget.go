package models

import "time"

// BudgetEntry records one department's cost submission for a scene. Entries are
// upserted keyed by (scene, department, submitter): re-submission overwrites
// prior values rather than appending history.
type BudgetEntry struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProjectID uint `gorm:"not null;index" json:"project_id"`

	SceneID     uint   `gorm:"not null;index;uniqueIndex:idx_scene_dept_submitter" json:"scene_id"`
	Department  string `gorm:"not null;size:100;uniqueIndex:idx_scene_dept_submitter" json:"department"`
	SubmittedBy uint   `gorm:"not null;uniqueIndex:idx_scene_dept_submitter" json:"submitted_by"`

	EstimatedCost float64 `gorm:"not null;default:0" json:"estimated_cost"`
	ActualCost    float64 `gorm:"not null;default:0" json:"actual_cost"`

	ProofReason string `json:"proof_reason,omitempty"`
	ProofURL    string `json:"proof_url,omitempty"`
	IsFinalized bool   `gorm:"default:false" json:"is_finalized"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BudgetEntry) TableName() string {
	return "nova_budget_entries"
}
