package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/adhithyakrishna0/nova-script-analyst/internal/platform"
	"github.com/adhithyakrishna0/nova-script-analyst/models"
	"github.com/adhithyakrishna0/nova-script-analyst/tasks"
)

// Runs daily at 18:00 so reminders land the evening before the shoot.
const defaultReminderSpec = "0 18 * * *"

func main() {
	// Use the shared initializers
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()
	ctx := context.Background()

	spec := os.Getenv("REMINDER_CRON")
	if spec == "" {
		spec = defaultReminderSpec
	}

	// Create a new cron scheduler
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		queueShootReminders(ctx, db, rdb)
	}); err != nil {
		log.Fatalf("Invalid cron spec %q: %v", spec, err)
	}
	c.Start()
	defer c.Stop()

	log.Printf("Scheduler started, reminders run on %q", spec)
	// Keep the main thread alive
	select {}
}

// queueShootReminders finds tomorrow's planned shoot days and queues one
// fan-out per project day. Only run one instance of this service to avoid
// duplicate reminders.
func queueShootReminders(ctx context.Context, db *gorm.DB, rdb *redis.Client) {
	tomorrow := time.Now().AddDate(0, 0, 1)
	start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, tomorrow.Location())
	end := start.AddDate(0, 0, 1)

	var days []models.ShootDay
	if err := db.Where("shoot_date >= ? AND shoot_date < ? AND status = ?",
		start, end, models.ShootDayPlanned).Find(&days).Error; err != nil {
		log.Printf("Error querying upcoming shoot days: %v", err)
		return
	}

	log.Printf("Queueing reminders for %d shoot days on %s", len(days), start.Format("2006-01-02"))

	for _, day := range days {
		task := tasks.NotifyFanoutPayload{
			ProjectID: day.ProjectID,
			Type:      models.NotificationShootReminder,
			Title:     "Shoot day tomorrow",
			Message:   "A shoot day is scheduled for " + day.ShootDate.Format("Monday, January 2, 2006") + ".",
		}
		payload, err := tasks.Marshal(task)
		if err != nil {
			log.Printf("Error marshalling reminder for shoot day %d: %v", day.ID, err)
			continue
		}
		if err := rdb.LPush(ctx, tasks.QueueNotifyFanout, payload).Err(); err != nil {
			log.Printf("Error pushing reminder for shoot day %d: %v", day.ID, err)
		}
	}
}
