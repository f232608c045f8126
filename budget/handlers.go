package budget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adhithyakrishna0/nova-script-analyst/models"
	"github.com/adhithyakrishna0/nova-script-analyst/projects"
	"github.com/adhithyakrishna0/nova-script-analyst/roles"
	"github.com/adhithyakrishna0/nova-script-analyst/tasks"
)

// ProofStore saves proof-of-expense documents and returns their public URL.
type ProofStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type Handler struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Proofs ProofStore
}

func NewHandler(db *gorm.DB, rdb *redis.Client, proofs ProofStore) *Handler {
	return &Handler{DB: db, Redis: rdb, Proofs: proofs}
}

// budgetKey is the upsert conflict target: one row per scene, department and
// submitter.
var budgetKey = []clause.Column{
	{Name: "scene_id"}, {Name: "department"}, {Name: "submitted_by"},
}

// Get returns a project's budget entries along with the aggregated views.
func (h *Handler) Get(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}
	if !projects.RequireMember(c, h.DB, uint(projectID)) {
		return
	}

	var entries []models.BudgetEntry
	if err := h.DB.Where("project_id = ?", projectID).Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve budget data"})
		return
	}

	var scenes []models.Scene
	if err := h.DB.Where("project_id = ?", projectID).
		Order("scene_number").
		Find(&scenes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve scenes"})
		return
	}

	userDepartment, _ := roles.DepartmentFor(c.GetString("role"))

	c.JSON(http.StatusOK, gin.H{
		"entries":         entries,
		"totals":          ProjectTotals(entries),
		"by_department":   ByDepartment(entries),
		"by_scene":        ByScene(scenes, entries),
		"user_department": userDepartment,
	})
}

type EstimateRequest struct {
	// Pointer so a zero estimate still passes required validation.
	Amount *float64 `json:"amount" binding:"required,gte=0"`
}

// SaveEstimate upserts the caller's estimate for a scene in their department.
// Re-submission overwrites the previous estimate rather than adding a row.
func (h *Handler) SaveEstimate(c *gin.Context) {
	scene, department, ok := h.resolveSubmission(c)
	if !ok {
		return
	}

	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := models.BudgetEntry{
		ProjectID:     scene.ProjectID,
		SceneID:       scene.ID,
		Department:    department,
		SubmittedBy:   c.GetUint("user_id"),
		EstimatedCost: *req.Amount,
		ActualCost:    0,
		IsFinalized:   false,
	}

	if err := h.DB.Clauses(clause.OnConflict{
		Columns:   budgetKey,
		DoUpdates: clause.AssignmentColumns([]string{"estimated_cost", "actual_cost", "is_finalized", "updated_at"}),
	}).Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save estimate"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

type ActualCostRequest struct {
	Amount      *float64 `json:"amount" binding:"required,gte=0"`
	ProofReason string   `json:"proof_reason"`
	ProofURL    string   `json:"proof_url"`
}

// SaveActual finalizes the caller's actual cost for a scene, preserving any
// previously saved estimate. Going over the estimate notifies the project's
// managers.
func (h *Handler) SaveActual(c *gin.Context) {
	scene, department, ok := h.resolveSubmission(c)
	if !ok {
		return
	}

	var req ActualCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("user_id")

	// Read-then-upsert: the row is keyed per submitter, so a stale read only
	// happens when the same user double-submits concurrently.
	var existing models.BudgetEntry
	estimated := 0.0
	err := h.DB.Where("scene_id = ? AND department = ? AND submitted_by = ?",
		scene.ID, department, userID).First(&existing).Error
	if err == nil {
		estimated = existing.EstimatedCost
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read budget entry"})
		return
	}

	entry := models.BudgetEntry{
		ProjectID:     scene.ProjectID,
		SceneID:       scene.ID,
		Department:    department,
		SubmittedBy:   userID,
		EstimatedCost: estimated,
		ActualCost:    *req.Amount,
		ProofReason:   req.ProofReason,
		ProofURL:      req.ProofURL,
		IsFinalized:   true,
	}

	if err := h.DB.Clauses(clause.OnConflict{
		Columns:   budgetKey,
		DoUpdates: clause.AssignmentColumns([]string{"actual_cost", "proof_reason", "proof_url", "is_finalized", "updated_at"}),
	}).Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save actual cost"})
		return
	}

	if *req.Amount > estimated {
		h.notifyVariance(c, scene, department, estimated, *req.Amount)
	}

	c.JSON(http.StatusOK, entry)
}

// UploadProof stores a proof-of-expense document and returns its public URL.
func (h *Handler) UploadProof(c *gin.Context) {
	if h.Proofs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File storage not configured"})
		return
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}
	if !projects.RequireMember(c, h.DB, uint(projectID)) {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("receipts/%d/%d_%s", projectID, time.Now().UnixMilli(), filepath.Base(fileHeader.Filename))
	url, err := h.Proofs.Upload(c.Request.Context(), key, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("Error uploading proof for project %d: %v", projectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload proof"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// resolveSubmission loads the scene from the route, checks membership and
// resolves the caller's department. Callers without a department in the role
// table cannot submit budget entries.
func (h *Handler) resolveSubmission(c *gin.Context) (*models.Scene, string, bool) {
	sceneID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scene ID"})
		return nil, "", false
	}

	var scene models.Scene
	if err := h.DB.First(&scene, sceneID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scene not found"})
		return nil, "", false
	}
	if !projects.RequireMember(c, h.DB, scene.ProjectID) {
		return nil, "", false
	}

	department, ok := roles.DepartmentFor(c.GetString("role"))
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your role has no budget department"})
		return nil, "", false
	}

	return &scene, department, true
}

// notifyVariance queues a managers-only alert that a department went over its
// estimate on a scene.
func (h *Handler) notifyVariance(c *gin.Context, scene *models.Scene, department string, estimated, actual float64) {
	if h.Redis == nil {
		return
	}

	sceneID := scene.ID
	task := tasks.NotifyFanoutPayload{
		ProjectID:      scene.ProjectID,
		ActorUserID:    c.GetUint("user_id"),
		ManagersOnly:   true,
		Type:           models.NotificationBudgetVariance,
		Title:          fmt.Sprintf("%s over budget on scene %d", department, scene.SceneNumber),
		Message:        fmt.Sprintf("Actual cost %.2f exceeds the %.2f estimate.", actual, estimated),
		RelatedSceneID: &sceneID,
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
