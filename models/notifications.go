package models

import "time"

// Notification types.
const (
	NotificationScenesImported = "scenes_imported"
	NotificationBudgetVariance = "budget_variance"
	NotificationShootReminder  = "shoot_reminder"
	NotificationCrewJoined     = "crew_joined"
)

type Notification struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	UserID    uint  `gorm:"not null;index" json:"user_id"`
	ProjectID *uint `gorm:"index" json:"project_id,omitempty"`

	Type    string `gorm:"not null;size:50" json:"type"`
	Title   string `gorm:"not null;size:255" json:"title"`
	Message string `gorm:"type:text" json:"message"`

	RelatedSceneID *uint `json:"related_scene_id,omitempty"`
	IsRead         bool  `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "nova_notifications"
}
