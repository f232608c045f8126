package notifications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
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

func testContext(method, path string, userID uint, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	c.Set("user_id", userID)
	c.Params = params
	return c, w
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	rows := []models.Notification{
		{UserID: 1, Type: models.NotificationScenesImported, Title: "Scene breakdown updated"},
		{UserID: 1, Type: models.NotificationCrewJoined, Title: "New crew member", IsRead: true},
		{UserID: 2, Type: models.NotificationShootReminder, Title: "Shoot day tomorrow"},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed notification: %v", err)
		}
	}
}

func TestListScopedToUser(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	h := NewHandler(db, nil)

	c, w := testContext("GET", "/notifications", 1, nil)
	h.List(c)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int64                 `json:"unread_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Notifications) != 2 {
		t.Errorf("notifications = %d, want 2", len(body.Notifications))
	}
	if body.UnreadCount != 1 {
		t.Errorf("unread_count = %d, want 1", body.UnreadCount)
	}
}

func TestMarkReadScopedToUser(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	h := NewHandler(db, nil)

	// Another user's notification is invisible.
	c, w := testContext("PUT", "/notifications/3/read", 1, gin.Params{{Key: "id", Value: "3"}})
	h.MarkRead(c)
	if w.Code != http.StatusNotFound {
		t.Errorf("foreign notification: status = %d, want 404", w.Code)
	}

	c, w = testContext("PUT", "/notifications/1/read", 1, gin.Params{{Key: "id", Value: "1"}})
	h.MarkRead(c)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var n models.Notification
	db.First(&n, 1)
	if !n.IsRead {
		t.Error("notification not marked read")
	}
}

func TestClearAll(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	h := NewHandler(db, nil)

	c, w := testContext("DELETE", "/notifications", 1, nil)
	h.ClearAll(c)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var mine, theirs int64
	db.Model(&models.Notification{}).Where("user_id = ?", 1).Count(&mine)
	db.Model(&models.Notification{}).Where("user_id = ?", 2).Count(&theirs)
	if mine != 0 {
		t.Errorf("own notifications remaining = %d, want 0", mine)
	}
	if theirs != 1 {
		t.Errorf("other user's notifications = %d, want 1 untouched", theirs)
	}
}

func TestStreamWithoutRedis(t *testing.T) {
	db := testDB(t)
	h := NewHandler(db, nil)

	c, w := testContext("GET", "/notifications/stream", 1, nil)
	h.Stream(c)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
