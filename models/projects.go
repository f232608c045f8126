package models

import "time"

type Project struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Passkey   string `gorm:"not null" json:"-"`
	CreatorID uint   `gorm:"not null;index" json:"creator_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Project) TableName() string {
	return "nova_projects"
}

// ProjectMember links a user to a project. One row per (project, user).
type ProjectMember struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProjectID uint    `gorm:"not null;index;uniqueIndex:idx_project_user" json:"project_id"`
	Project   Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID    uint    `gorm:"not null;index;uniqueIndex:idx_project_user" json:"user_id"`
	Role      string  `gorm:"not null" json:"role"`

	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (ProjectMember) TableName() string {
	return "nova_project_members"
}
