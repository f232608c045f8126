package scenes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/adhithyakrishna0/nova-script-analyst/models"
	"github.com/adhithyakrishna0/nova-script-analyst/processing"
	"github.com/adhithyakrishna0/nova-script-analyst/projects"
	"github.com/adhithyakrishna0/nova-script-analyst/tasks"
)

// ScriptAnalyzer turns raw screenplay text into scene records.
type ScriptAnalyzer interface {
	AnalyzeScript(ctx context.Context, scriptText string) ([]processing.SceneRecord, error)
}

type Handler struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Analyzer ScriptAnalyzer
}

func NewHandler(db *gorm.DB, rdb *redis.Client, analyzer ScriptAnalyzer) *Handler {
	return &Handler{DB: db, Redis: rdb, Analyzer: analyzer}
}

// List returns a project's scenes in scene-number order.
func (h *Handler) List(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}
	if !projects.RequireMember(c, h.DB, uint(projectID)) {
		return
	}

	var scenes []models.Scene
	if err := h.DB.Where("project_id = ?", projectID).
		Order("scene_number").
		Find(&scenes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve scenes"})
		return
	}

	c.JSON(http.StatusOK, scenes)
}

// sceneColumns is the set of fields a scene update may touch.
var sceneColumns = map[string]bool{
	"heading": true, "content": true, "location_type": true, "specific_location": true,
	"time_of_day": true, "characters_present": true, "speaking_roles": true, "extras": true,
	"functional_props": true, "decorative_props": true, "camera_movement": true,
	"framing": true, "lighting": true, "lighting_mood": true, "diegetic_sounds": true,
	"scene_mood": true, "emotional_arc": true, "primary_action": true, "pacing": true,
	"shoot_type": true, "status": true,
}

// Update applies a partial update to one scene.
func (h *Handler) Update(c *gin.Context) {
	sceneID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scene ID"})
		return
	}

	var scene models.Scene
	if err := h.DB.First(&scene, sceneID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scene not found"})
		return
	}
	if !projects.RequireMember(c, h.DB, scene.ProjectID) {
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{}, len(req))
	for k, v := range req {
		if sceneColumns[k] {
			updates[k] = v
		}
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updatable fields provided"})
		return
	}

	if err := h.DB.Model(&scene).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update scene"})
		return
	}

	c.JSON(http.StatusOK, scene)
}

// Delete removes a scene along with its budget entries and schedule links.
func (h *Handler) Delete(c *gin.Context) {
	sceneID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scene ID"})
		return
	}

	var scene models.Scene
	if err := h.DB.First(&scene, sceneID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scene not found"})
		return
	}
	if !projects.RequireMember(c, h.DB, scene.ProjectID) {
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scene_id = ?", scene.ID).Delete(&models.BudgetEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("scene_id = ?", scene.ID).Delete(&models.DayScene{}).Error; err != nil {
			return err
		}
		return tx.Delete(&scene).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete scene"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Scene deleted"})
}

type AnalyzeRequest struct {
	ScriptText string `json:"script_text" binding:"required"`
}

// Analyze runs the script through the analyzer and replaces the project's
// scene set with the result. The response is parsed and validated before any
// existing scene is touched; the delete and inserts share one transaction, so
// a failed import never leaves the project without scenes.
func (h *Handler) Analyze(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}
	if !projects.RequireMember(c, h.DB, uint(projectID)) {
		return
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.Analyzer == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": processing.ErrNotConfigured.Error()})
		return
	}

	records, err := h.Analyzer.AnalyzeScript(c.Request.Context(), req.ScriptText)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, processing.ErrNotConfigured):
			status = http.StatusInternalServerError
		case errors.Is(err, processing.ErrRateLimited):
			status = http.StatusTooManyRequests
		case errors.Is(err, processing.ErrQuotaExhausted):
			status = http.StatusPaymentRequired
		case errors.Is(err, processing.ErrParse):
			status = http.StatusUnprocessableEntity
		}
		log.Printf("Script analysis failed for project %d: %v", projectID, err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Scene{}).Error; err != nil {
			return err
		}
		for i, rec := range records {
			scene := sceneFromRecord(uint(projectID), rec, i)
			if err := tx.Create(&scene).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save scenes"})
		return
	}

	h.notifyImported(c, uint(projectID), len(records))
	c.JSON(http.StatusOK, gin.H{"count": len(records)})
}

// notifyImported queues a fan-out so other project members hear about the new
// breakdown. Best-effort: queue errors are logged, the import already
// succeeded.
func (h *Handler) notifyImported(c *gin.Context, projectID uint, count int) {
	if h.Redis == nil {
		return
	}

	task := tasks.NotifyFanoutPayload{
		ProjectID:   projectID,
		ActorUserID: c.GetUint("user_id"),
		Type:        models.NotificationScenesImported,
		Title:       "Scene breakdown updated",
		Message:     fmt.Sprintf("The script was re-analyzed into %d scenes.", count),
	}
	payload, err := tasks.Marshal(task)
	if err != nil {
		log.Printf("Error marshalling fanout task: %v", err)
		return
	}
	if err := h.Redis.LPush(c.Request.Context(), tasks.QueueNotifyFanout, payload).Err(); err != nil {
		log.Printf("Error pushing to queue %s: %v", tasks.QueueNotifyFanout, err)
	}
}

// sceneFromRecord maps an extracted record onto a scene row, defaulting the
// fields the model left blank.
func sceneFromRecord(projectID uint, rec processing.SceneRecord, index int) models.Scene {
	number := rec.SceneNumber
	if number <= 0 {
		number = index + 1
	}

	heading := rec.Heading
	if heading == "" {
		heading = fmt.Sprintf("Scene %d", number)
	}
	locationType := rec.LocationType
	if locationType == "" {
		locationType = "INT"
	}
	timeOfDay := rec.TimeOfDay
	if timeOfDay == "" {
		timeOfDay = "DAY"
	}

	return models.Scene{
		ProjectID:         projectID,
		SceneNumber:       number,
		Heading:           heading,
		Content:           rec.Content,
		LocationType:      locationType,
		SpecificLocation:  rec.SpecificLocation,
		TimeOfDay:         timeOfDay,
		CharactersPresent: rec.CharactersPresent,
		SpeakingRoles:     rec.SpeakingRoles,
		Extras:            rec.Extras,
		FunctionalProps:   rec.FunctionalProps,
		DecorativeProps:   rec.DecorativeProps,
		CameraMovement:    rec.CameraMovement,
		Framing:           rec.Framing,
		Lighting:          rec.Lighting,
		LightingMood:      rec.LightingMood,
		DiegeticSounds:    rec.DiegeticSounds,
		SceneMood:         rec.SceneMood,
		EmotionalArc:      rec.EmotionalArc,
		PrimaryAction:     rec.PrimaryAction,
		Pacing:            rec.Pacing,
		ShootType:         rec.ShootType,
	}
}
