package projects

import (
	"encoding/json"
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

func testContext(method, path, body string, userID uint, role string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("user_id", userID)
	c.Set("role", role)
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestCreateProjectAddsCreatorAsMember(t *testing.T) {
	db := testDB(t)
	h := NewHandler(db, nil)

	c, w := testContext("POST", "/projects", `{"name":"Sunrise","passkey":"secret1"}`, 1, "Director")
	h.Create(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var member models.ProjectMember
	if err := db.First(&member, "user_id = ?", 1).Error; err != nil {
		t.Fatalf("creator membership missing: %v", err)
	}
	if member.Role != "Director" {
		t.Errorf("member role = %q, want Director", member.Role)
	}
}

func TestCreateProjectDuplicateName(t *testing.T) {
	db := testDB(t)
	h := NewHandler(db, nil)

	c, w := testContext("POST", "/projects", `{"name":"Sunrise","passkey":"secret1"}`, 1, "Director")
	h.Create(c)
	if w.Code != http.StatusOK {
		t.Fatalf("first create: status = %d", w.Code)
	}

	c, w = testContext("POST", "/projects", `{"name":"Sunrise","passkey":"other-key"}`, 2, "Producer")
	h.Create(c)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create: status = %d, want 409", w.Code)
	}
}

func TestJoinWrongPasskey(t *testing.T) {
	db := testDB(t)
	h := NewHandler(db, nil)
	db.Create(&models.Project{Name: "Sunrise", Passkey: "secret1", CreatorID: 1})

	c, w := testContext("POST", "/projects/join", `{"name":"Sunrise","passkey":"wrong"}`, 2, "Gaffer")
	h.Join(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["error"] != "Incorrect passkey" {
		t.Errorf("error = %v, want Incorrect passkey", body["error"])
	}

	// A failed join must not leave a membership row behind.
	var count int64
	db.Model(&models.ProjectMember{}).Where("user_id = ?", 2).Count(&count)
	if count != 0 {
		t.Errorf("membership rows after failed join = %d, want 0", count)
	}
}

func TestJoinUnknownProject(t *testing.T) {
	db := testDB(t)
	h := NewHandler(db, nil)

	c, w := testContext("POST", "/projects/join", `{"name":"Nope","passkey":"secret1"}`, 2, "Gaffer")
	h.Join(c)

	body := decodeBody(t, w)
	if body["success"] != false || body["error"] != "Project not found" {
		t.Errorf("body = %v", body)
	}
}

func TestJoinSuccessAndRepeat(t *testing.T) {
	db := testDB(t)
	h := NewHandler(db, nil)
	db.Create(&models.Project{Name: "Sunrise", Passkey: "secret1", CreatorID: 1})

	c, w := testContext("POST", "/projects/join", `{"name":"Sunrise","passkey":"secret1"}`, 2, "Gaffer")
	h.Join(c)
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Fatalf("join failed: %v", body)
	}

	var member models.ProjectMember
	if err := db.First(&member, "user_id = ?", 2).Error; err != nil {
		t.Fatalf("membership missing: %v", err)
	}
	if member.Role != "Gaffer" {
		t.Errorf("member role = %q, want Gaffer", member.Role)
	}

	// Joining twice is reported as a business failure, not an error.
	c, w = testContext("POST", "/projects/join", `{"name":"Sunrise","passkey":"secret1"}`, 2, "Gaffer")
	h.Join(c)
	body = decodeBody(t, w)
	if body["success"] != false || body["error"] != "You are already a member of this project" {
		t.Errorf("repeat join body = %v", body)
	}
}

func TestListByRole(t *testing.T) {
	db := testDB(t)
	h := NewHandler(db, nil)

	p1 := models.Project{Name: "One", Passkey: "secret1", CreatorID: 1}
	p2 := models.Project{Name: "Two", Passkey: "secret1", CreatorID: 1}
	db.Create(&p1)
	db.Create(&p2)
	db.Create(&models.ProjectMember{ProjectID: p1.ID, UserID: 2, Role: "Gaffer"})

	// Managers see the projects they created.
	c, w := testContext("GET", "/projects", "", 1, "Producer")
	h.List(c)
	var managerProjects []models.Project
	if err := json.Unmarshal(w.Body.Bytes(), &managerProjects); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(managerProjects) != 2 {
		t.Errorf("manager sees %d projects, want 2", len(managerProjects))
	}

	// Crew see the projects they joined.
	c, w = testContext("GET", "/projects", "", 2, "Gaffer")
	h.List(c)
	var crewProjects []models.Project
	if err := json.Unmarshal(w.Body.Bytes(), &crewProjects); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(crewProjects) != 1 || crewProjects[0].ID != p1.ID {
		t.Errorf("crew sees %v, want just project %d", crewProjects, p1.ID)
	}
}

func TestDeleteRequiresCreator(t *testing.T) {
	db := testDB(t)
	h := NewHandler(db, nil)
	p := models.Project{Name: "Sunrise", Passkey: "secret1", CreatorID: 1}
	db.Create(&p)

	c, w := testContext("DELETE", "/projects/1", "", 2, "Producer")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.Delete(c)
	if w.Code != http.StatusNotFound {
		t.Errorf("non-creator delete: status = %d, want 404", w.Code)
	}

	c, w = testContext("DELETE", "/projects/1", "", 1, "Producer")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.Delete(c)
	if w.Code != http.StatusOK {
		t.Errorf("creator delete: status = %d, want 200", w.Code)
	}

	var count int64
	db.Model(&models.Project{}).Count(&count)
	if count != 0 {
		t.Errorf("projects remaining = %d, want 0", count)
	}
}
