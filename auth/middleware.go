package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adhithyakrishna0/nova-script-analyst/models"
	"github.com/adhithyakrishna0/nova-script-analyst/roles"
)

// AuthMiddleware protects routes. It accepts either the session cookie set at
// login or an Authorization bearer JWT, loads the caller's profile, and puts
// user_id, email and role into the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get database from context (we'll need to pass it in)
		dbVal, exists := c.Get("db")
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not available"})
			c.Abort()
			return
		}
		db := dbVal.(*gorm.DB)

		userID, email, ok := authenticate(c, db)
		if !ok {
			return
		}

		var profile models.Profile
		if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Profile not found"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("email", email)
		c.Set("role", profile.Role)
		c.Next()
	}
}

// authenticate resolves the caller from a bearer JWT or session cookie. On
// failure it writes the response and aborts.
func authenticate(c *gin.Context, db *gorm.DB) (uint, string, bool) {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		claims, err := ValidateJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return 0, "", false
		}
		return claims.UserID, claims.Email, true
	}

	sessionToken, err := c.Cookie("session_token")
	if err != nil || sessionToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No authentication token provided"})
		c.Abort()
		return 0, "", false
	}

	// Validate session in database
	var session models.Session
	if err := db.Preload("User").Where("session_token = ?", sessionToken).First(&session).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		c.Abort()
		return 0, "", false
	}

	if session.IsExpired() {
		// Delete expired session
		db.Delete(&session)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
		c.Abort()
		return 0, "", false
	}

	// Update last accessed time
	session.UpdateLastAccessed(db)

	return session.UserID, session.User.Email, true
}

// RequireManager gates scene, schedule, crew and call-sheet mutations behind
// the manager role class. Must run after AuthMiddleware.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !roles.IsManager(c.GetString("role")) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Manager role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
