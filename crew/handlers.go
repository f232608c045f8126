package crew

import (
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

// Member is one crew listing: the membership row enriched with the profile.
type Member struct {
	ID       uint      `json:"id"`
	UserID   uint      `json:"user_id"`
	Role     string    `json:"role"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

// List returns the project's crew with emails pulled from profiles.
func (h *Handler) List(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}
	if !projects.RequireMember(c, h.DB, uint(projectID)) {
		return
	}

	var members []Member
	if err := h.DB.Model(&models.ProjectMember{}).
		Select("nova_project_members.id, nova_project_members.user_id, nova_project_members.role, nova_profiles.email, nova_project_members.joined_at").
		Joins("JOIN nova_profiles ON nova_profiles.user_id = nova_project_members.user_id").
		Where("nova_project_members.project_id = ?", projectID).
		Order("nova_project_members.joined_at").
		Scan(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve crew"})
		return
	}

	c.JSON(http.StatusOK, members)
}

// Remove drops a member from the project. The creator cannot be removed.
func (h *Handler) Remove(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}
	memberID, err := strconv.ParseUint(c.Param("memberID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}
	if !projects.RequireMember(c, h.DB, uint(projectID)) {
		return
	}

	var member models.ProjectMember
	if err := h.DB.First(&member, "id = ? AND project_id = ?", memberID, projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	var project models.Project
	if err := h.DB.First(&project, projectID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if member.UserID == project.CreatorID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The project creator cannot be removed"})
		return
	}

	if err := h.DB.Delete(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}
