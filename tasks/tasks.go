package tasks

import "encoding/json"

// ---
// QUEUE DEFINITIONS
// ---
// We define all queue names as constants here.
const (
	// QueueNotifyFanout delivers one notification to every member of a
	// project (optionally managers only).
	QueueNotifyFanout = "q_notify_fanout"
)

// ---
// TASK PAYLOADS
// ---
// These are the structs that will be JSON-marshalled and sent to Redis.

// NotifyFanoutPayload is the payload for QueueNotifyFanout. The actor, when
// set, is excluded from delivery so users are not notified about their own
// actions.
type NotifyFanoutPayload struct {
	ProjectID      uint   `json:"project_id"`
	ActorUserID    uint   `json:"actor_user_id,omitempty"`
	ManagersOnly   bool   `json:"managers_only,omitempty"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	RelatedSceneID *uint  `json:"related_scene_id,omitempty"`
}

// ---
// HELPER FUNCTIONS
// ---

// Marshal creates a JSON payload for a task.
func Marshal(payload interface{}) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
