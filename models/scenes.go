package models

import "time"

// Scene is one screenplay unit with descriptive metadata. Scenes are the unit
// against which budget and schedule entries are tracked, and are wholesale
// replaced when a script is re-analyzed.
type Scene struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	ProjectID   uint `gorm:"not null;index;uniqueIndex:idx_project_scene_number" json:"project_id"`
	SceneNumber int  `gorm:"not null;uniqueIndex:idx_project_scene_number" json:"scene_number"`

	Heading          string `gorm:"size:255" json:"heading"`
	Content          string `gorm:"type:text" json:"content"`
	LocationType     string `gorm:"size:50" json:"location_type"`
	SpecificLocation string `gorm:"size:255" json:"specific_location"`
	TimeOfDay        string `gorm:"size:50" json:"time_of_day"`

	CharactersPresent string `json:"characters_present"`
	SpeakingRoles     string `json:"speaking_roles"`
	Extras            string `json:"extras"`

	FunctionalProps string `json:"functional_props"`
	DecorativeProps string `json:"decorative_props"`

	CameraMovement string `json:"camera_movement"`
	Framing        string `json:"framing"`
	Lighting       string `json:"lighting"`
	LightingMood   string `json:"lighting_mood"`
	DiegeticSounds string `json:"diegetic_sounds"`

	SceneMood     string `json:"scene_mood"`
	EmotionalArc  string `json:"emotional_arc"`
	PrimaryAction string `json:"primary_action"`
	Pacing        string `json:"pacing"`
	ShootType     string `json:"shoot_type"`

	Status string `gorm:"default:'unscheduled'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Scene) TableName() string {
	return "nova_scenes"
}
