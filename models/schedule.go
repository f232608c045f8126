package models

import "time"

// Shoot day statuses.
const (
	ShootDayPlanned    = "planned"
	ShootDayInProgress = "in_progress"
	ShootDayCompleted  = "completed"
)

type ShootDay struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	ShootDate time.Time `gorm:"not null;index" json:"shoot_date"`
	Status    string    `gorm:"default:'planned'" json:"status"`
	Notes     string    `gorm:"type:text" json:"notes"`

	DayScenes []DayScene `gorm:"foreignKey:ShootDayID" json:"day_scenes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (ShootDay) TableName() string {
	return "nova_shoot_days"
}

// DayScene assigns a scene to a shoot day with its call time.
type DayScene struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ShootDayID  uint   `gorm:"not null;index" json:"shoot_day_id"`
	SceneID     uint   `gorm:"not null;index" json:"scene_id"`
	Scene       Scene  `gorm:"foreignKey:SceneID" json:"scene,omitempty"`
	CallTime    string `gorm:"size:50" json:"call_time"`
	SceneStatus string `gorm:"default:'scheduled'" json:"scene_status"`

	CreatedAt time.Time `json:"created_at"`
}

func (DayScene) TableName() string {
	return "nova_day_scenes"
}
