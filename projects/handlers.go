package projects

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/adhithyakrishna0/nova-script-analyst/models"
	"github.com/adhithyakrishna0/nova-script-analyst/roles"
	"github.com/adhithyakrishna0/nova-script-analyst/tasks"
)

type Handler struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHandler(db *gorm.DB, rdb *redis.Client) *Handler {
	return &Handler{DB: db, Redis: rdb}
}

type CreateProjectRequest struct {
	Name    string `json:"name" binding:"required,min=2"`
	Passkey string `json:"passkey" binding:"required,min=6"`
}

// Create inserts a project and adds the creator as its first member.
func (h *Handler) Create(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := c.GetString("role")

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := models.Project{
		Name:      req.Name,
		Passkey:   req.Passkey,
		CreatorID: userID,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    userID,
			Role:      role,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "A project with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusOK, project)
}

// List returns the caller's projects: managers see projects they created,
// everyone else sees projects they have joined.
func (h *Handler) List(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := c.GetString("role")

	var projects []models.Project
	if roles.IsManager(role) {
		if err := h.DB.Where("creator_id = ?", userID).
			Order("created_at DESC").
			Find(&projects).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
			return
		}
	} else {
		if err := h.DB.
			Joins("JOIN nova_project_members ON nova_project_members.project_id = nova_projects.id").
			Where("nova_project_members.user_id = ?", userID).
			Order("nova_projects.created_at DESC").
			Find(&projects).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
			return
		}
	}

	c.JSON(http.StatusOK, projects)
}

type JoinProjectRequest struct {
	Name    string `json:"name" binding:"required"`
	Passkey string `json:"passkey" binding:"required"`
}

// Join verifies the passkey for the named project and inserts a membership
// row, all inside one transaction. Business failures come back as a success
// flag with an error message rather than an HTTP error, so the client can
// surface them directly.
func (h *Handler) Join(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := c.GetString("role")

	var req JoinProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var joined *models.Project
	var failure string

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Where("name = ?", req.Name).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				failure = "Project not found"
				return nil
			}
			return err
		}

		if project.Passkey != req.Passkey {
			failure = "Incorrect passkey"
			return nil
		}

		var existing int64
		if err := tx.Model(&models.ProjectMember{}).
			Where("project_id = ? AND user_id = ?", project.ID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			failure = "You are already a member of this project"
			return nil
		}

		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    userID,
			Role:      role,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		joined = &project
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join project"})
		return
	}

	if failure != "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": failure})
		return
	}

	h.notifyJoined(c, joined, role)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": gin.H{"id": joined.ID, "name": joined.Name},
	})
}

// notifyJoined queues a fan-out telling the rest of the crew who joined.
// Best-effort: queue errors are logged, the membership already exists.
func (h *Handler) notifyJoined(c *gin.Context, project *models.Project, role string) {
	if h.Redis == nil {
		return
	}

	task := tasks.NotifyFanoutPayload{
		ProjectID:   project.ID,
		ActorUserID: c.GetUint("user_id"),
		Type:        models.NotificationCrewJoined,
		Title:       "New crew member",
		Message:     fmt.Sprintf("A %s joined %s.", role, project.Name),
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

// Delete removes a project and everything hanging off it.
func (h *Handler) Delete(c *gin.Context) {
	userID := c.GetUint("user_id")
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var project models.Project
	if err := h.DB.First(&project, "id = ? AND creator_id = ?", projectID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.BudgetEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shoot_day_id IN (?)",
			tx.Model(&models.ShootDay{}).Select("id").Where("project_id = ?", project.ID),
		).Delete(&models.DayScene{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ShootDay{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Scene{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// IsMember reports whether the user belongs to the project.
func IsMember(db *gorm.DB, projectID, userID uint) (bool, error) {
	var count int64
	err := db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// RequireMember aborts with 403 unless the caller is a member of the project.
// Returns false when it aborted.
func RequireMember(c *gin.Context, db *gorm.DB, projectID uint) bool {
	ok, err := IsMember(db, projectID, c.GetUint("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		c.Abort()
		return false
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this project"})
		c.Abort()
		return false
	}
	return true
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
