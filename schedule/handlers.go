package schedule

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adhithyakrishna0/nova-script-analyst/models"
	"github.com/adhithyakrishna0/nova-script-analyst/projects"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

var validStatuses = map[string]bool{
	models.ShootDayPlanned:    true,
	models.ShootDayInProgress: true,
	models.ShootDayCompleted:  true,
}

// ListDays returns a project's shoot days with their scene assignments.
func (h *Handler) ListDays(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}
	if !projects.RequireMember(c, h.DB, uint(projectID)) {
		return
	}

	var days []models.ShootDay
	if err := h.DB.Where("project_id = ?", projectID).
		Preload("DayScenes.Scene").
		Order("shoot_date").
		Find(&days).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shoot days"})
		return
	}

	c.JSON(http.StatusOK, days)
}

type CreateDayRequest struct {
	ShootDate string `json:"shoot_date" binding:"required"`
	Notes     string `json:"notes"`
}

// CreateDay adds a shoot day to the project.
func (h *Handler) CreateDay(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}
	if !projects.RequireMember(c, h.DB, uint(projectID)) {
		return
	}

	var req CreateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.ShootDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shoot_date must be YYYY-MM-DD"})
		return
	}

	day := models.ShootDay{
		ProjectID: uint(projectID),
		ShootDate: date,
		Status:    models.ShootDayPlanned,
		Notes:     req.Notes,
	}
	if err := h.DB.Create(&day).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shoot day"})
		return
	}

	c.JSON(http.StatusOK, day)
}

type UpdateDayRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// UpdateDay changes a shoot day's status or notes.
func (h *Handler) UpdateDay(c *gin.Context) {
	day, ok := h.loadDay(c)
	if !ok {
		return
	}

	var req UpdateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		if !validStatuses[*req.Status] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		updates["status"] = *req.Status
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	if err := h.DB.Model(day).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shoot day"})
		return
	}

	c.JSON(http.StatusOK, day)
}

// DeleteDay removes a shoot day and its scene assignments.
func (h *Handler) DeleteDay(c *gin.Context) {
	day, ok := h.loadDay(c)
	if !ok {
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shoot_day_id = ?", day.ID).Delete(&models.DayScene{}).Error; err != nil {
			return err
		}
		return tx.Delete(day).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete shoot day"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Shoot day deleted"})
}

type AddSceneRequest struct {
	SceneID     uint   `json:"scene_id" binding:"required"`
	CallTime    string `json:"call_time"`
	SceneStatus string `json:"scene_status"`
}

// AddScene assigns a scene to a shoot day with its call time.
func (h *Handler) AddScene(c *gin.Context) {
	day, ok := h.loadDay(c)
	if !ok {
		return
	}

	var req AddSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The scene must belong to the same project as the day.
	var scene models.Scene
	if err := h.DB.First(&scene, "id = ? AND project_id = ?", req.SceneID, day.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Scene not found in this project"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	dayScene := models.DayScene{
		ShootDayID:  day.ID,
		SceneID:     scene.ID,
		CallTime:    req.CallTime,
		SceneStatus: req.SceneStatus,
	}
	if err := h.DB.Create(&dayScene).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign scene"})
		return
	}

	c.JSON(http.StatusOK, dayScene)
}

// RemoveScene unassigns a scene from its shoot day.
func (h *Handler) RemoveScene(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	var dayScene models.DayScene
	if err := h.DB.First(&dayScene, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}

	var day models.ShootDay
	if err := h.DB.First(&day, dayScene.ShootDayID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !projects.RequireMember(c, h.DB, day.ProjectID) {
		return
	}

	if err := h.DB.Delete(&dayScene).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove scene"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Scene removed from shoot day"})
}

// CallSheet renders the day's call sheet and offers it as a download.
func (h *Handler) CallSheet(c *gin.Context) {
	day, ok := h.loadDay(c)
	if !ok {
		return
	}

	var project models.Project
	if err := h.DB.First(&project, day.ProjectID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// Only the scenes assigned to this day appear on the sheet.
	var scenes []models.Scene
	if err := h.DB.
		Joins("JOIN nova_day_scenes ON nova_day_scenes.scene_id = nova_scenes.id").
		Where("nova_day_scenes.shoot_day_id = ?", day.ID).
		Order("nova_scenes.scene_number").
		Find(&scenes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve scenes"})
		return
	}

	content := BuildCallSheet(project, *day, scenes)
	filename := fmt.Sprintf("CallSheet_%s_%s.txt", project.Name, day.ShootDate.Format("2006-01-02"))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}

// loadDay fetches the shoot day from the route and checks project membership.
func (h *Handler) loadDay(c *gin.Context) (*models.ShootDay, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shoot day ID"})
		return nil, false
	}

	var day models.ShootDay
	if err := h.DB.First(&day, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shoot day not found"})
		return nil, false
	}
	if !projects.RequireMember(c, h.DB, day.ProjectID) {
		return nil, false
	}
	return &day, true
}
