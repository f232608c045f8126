package worker

import (
	"context"
	"encoding/json"
	"log"

	"github.com/adhithyakrishna0/nova-script-analyst/models"
	"github.com/adhithyakrishna0/nova-script-analyst/notifications"
	"github.com/adhithyakrishna0/nova-script-analyst/roles"
	"github.com/adhithyakrishna0/nova-script-analyst/tasks"
)

// HandleNotifyFanout processes tasks from QueueNotifyFanout: it expands one
// project-level event into a notification row per recipient member.
func (p *Processor) HandleNotifyFanout(ctx context.Context, payload string) error {
	var task tasks.NotifyFanoutPayload
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return err
	}

	log.Printf("Fanning out %q notification for project %d", task.Type, task.ProjectID)

	var members []models.ProjectMember
	if err := p.DB.Where("project_id = ?", task.ProjectID).Find(&members).Error; err != nil {
		return err
	}

	delivered := 0
	for _, m := range members {
		if m.UserID == task.ActorUserID {
			continue
		}
		if task.ManagersOnly && !roles.IsManager(m.Role) {
			continue
		}

		n := models.Notification{
			UserID:         m.UserID,
			ProjectID:      &task.ProjectID,
			Type:           task.Type,
			Title:          task.Title,
			Message:        task.Message,
			RelatedSceneID: task.RelatedSceneID,
		}
		if err := notifications.Create(ctx, p.DB, p.RDB, &n); err != nil {
			log.Printf("Error creating notification for user %d: %v", m.UserID, err)
			continue
		}
		delivered++
	}

	log.Printf("Delivered %q notification to %d members of project %d", task.Type, delivered, task.ProjectID)
	return nil
}
