package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/adhithyakrishna0/nova-script-analyst/models"
)

// ChannelFor names the Redis pub/sub channel carrying one user's
// notification inserts.
func ChannelFor(userID uint) string {
	return fmt.Sprintf("notifications:%d", userID)
}

// Create inserts a notification row and publishes it to the recipient's
// realtime channel. A publish failure is logged, not returned: the row is the
// source of truth and the stream is best-effort.
func Create(ctx context.Context, db *gorm.DB, rdb *redis.Client, n *models.Notification) error {
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return err
	}

	if rdb == nil {
		return nil
	}
	payload, err := json.Marshal(n)
	if err != nil {
		log.Printf("Error marshalling notification %d: %v", n.ID, err)
		return nil
	}
	if err := rdb.Publish(ctx, ChannelFor(n.UserID), payload).Err(); err != nil {
		log.Printf("Error publishing notification %d: %v", n.ID, err)
	}
	return nil
}
