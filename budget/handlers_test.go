package budget

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adhithyakrishna0/nova-script-analyst/internal/platform"
	"github.com/adhithyakrishna0/nova-script-analyst/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := platform.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedScene(t *testing.T, db *gorm.DB, userID uint, role string) models.Scene {
	t.Helper()
	p := models.Project{Name: "Sunrise", Passkey: "secret1", CreatorID: 1}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	if err := db.Create(&models.ProjectMember{ProjectID: p.ID, UserID: userID, Role: role}).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
	scene := models.Scene{ProjectID: p.ID, SceneNumber: 1, Heading: "Opening"}
	if err := db.Create(&scene).Error; err != nil {
		t.Fatalf("seed scene: %v", err)
	}
	return scene
}

func testContext(method, path, body string, userID uint, role string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("user_id", userID)
	c.Set("role", role)
	c.Params = params
	return c, w
}

func TestSaveEstimateUpserts(t *testing.T) {
	db := testDB(t)
	scene := seedScene(t, db, 2, "Gaffer")
	h := NewHandler(db, nil, nil)
	params := gin.Params{{Key: "id", Value: "1"}}

	c, w := testContext("POST", "/scenes/1/budget/estimate", `{"amount":100}`, 2, "Gaffer", params)
	h.SaveEstimate(c)
	if w.Code != http.StatusOK {
		t.Fatalf("first estimate: status = %d, body = %s", w.Code, w.Body.String())
	}

	c, w = testContext("POST", "/scenes/1/budget/estimate", `{"amount":250}`, 2, "Gaffer", params)
	h.SaveEstimate(c)
	if w.Code != http.StatusOK {
		t.Fatalf("second estimate: status = %d", w.Code)
	}

	// Re-submission overwrites rather than duplicating.
	var entries []models.BudgetEntry
	db.Where("scene_id = ?", scene.ID).Find(&entries)
	if len(entries) != 1 {
		t.Fatalf("entry count = %d, want 1", len(entries))
	}
	if entries[0].EstimatedCost != 250 || entries[0].Department != "Lighting" {
		t.Errorf("entry = %+v, want estimated=250 department=Lighting", entries[0])
	}
}

func TestSaveEstimateAllowsZero(t *testing.T) {
	db := testDB(t)
	seedScene(t, db, 2, "Gaffer")
	h := NewHandler(db, nil, nil)

	c, w := testContext("POST", "/scenes/1/budget/estimate", `{"amount":0}`, 2, "Gaffer",
		gin.Params{{Key: "id", Value: "1"}})
	h.SaveEstimate(c)
	if w.Code != http.StatusOK {
		t.Errorf("zero estimate: status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestSaveActualPreservesEstimate(t *testing.T) {
	db := testDB(t)
	scene := seedScene(t, db, 2, "Gaffer")
	h := NewHandler(db, nil, nil)
	params := gin.Params{{Key: "id", Value: "1"}}

	c, _ := testContext("POST", "/scenes/1/budget/estimate", `{"amount":100}`, 2, "Gaffer", params)
	h.SaveEstimate(c)

	c, w := testContext("POST", "/scenes/1/budget/actual", `{"amount":80}`, 2, "Gaffer", params)
	h.SaveActual(c)
	if w.Code != http.StatusOK {
		t.Fatalf("actual: status = %d, body = %s", w.Code, w.Body.String())
	}

	var entry models.BudgetEntry
	db.First(&entry, "scene_id = ?", scene.ID)
	if entry.EstimatedCost != 100 || entry.ActualCost != 80 {
		t.Errorf("entry = %+v, want estimated=100 actual=80", entry)
	}
	if !entry.IsFinalized {
		t.Error("entry not finalized")
	}
}

func TestSaveActualWithoutEstimate(t *testing.T) {
	db := testDB(t)
	scene := seedScene(t, db, 2, "Gaffer")
	h := NewHandler(db, nil, nil)

	c, w := testContext("POST", "/scenes/1/budget/actual", `{"amount":120,"proof_reason":"rush rental"}`,
		2, "Gaffer", gin.Params{{Key: "id", Value: "1"}})
	h.SaveActual(c)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var entry models.BudgetEntry
	db.First(&entry, "scene_id = ?", scene.ID)
	if entry.EstimatedCost != 0 || entry.ActualCost != 120 || entry.ProofReason != "rush rental" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestSubmissionRequiresDepartment(t *testing.T) {
	db := testDB(t)
	seedScene(t, db, 2, "Producer")
	h := NewHandler(db, nil, nil)

	// Manager titles have no budget department and cannot submit.
	c, w := testContext("POST", "/scenes/1/budget/estimate", `{"amount":100}`, 2, "Producer",
		gin.Params{{Key: "id", Value: "1"}})
	h.SaveEstimate(c)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestSubmissionRequiresMembership(t *testing.T) {
	db := testDB(t)
	seedScene(t, db, 2, "Gaffer")
	h := NewHandler(db, nil, nil)

	c, w := testContext("POST", "/scenes/1/budget/estimate", `{"amount":100}`, 3, "Gaffer",
		gin.Params{{Key: "id", Value: "1"}})
	h.SaveEstimate(c)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestUploadProofWithoutStore(t *testing.T) {
	db := testDB(t)
	h := NewHandler(db, nil, nil)

	c, w := testContext("POST", "/projects/1/budget/proof", "", 2, "Gaffer",
		gin.Params{{Key: "id", Value: "1"}})
	h.UploadProof(c)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
