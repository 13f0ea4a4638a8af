package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypePostCreated Type = "post.created"
	TypePostUpdated Type = "post.updated"
	TypePostDeleted Type = "post.deleted"
	TypePostLiked   Type = "post.liked"
	TypeUserJoined  Type = "user.joined"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
	ActorID   string `json:"actor_id,omitempty"` // Who triggered the event
}

func New(typ Type, actorID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		ActorID:   actorID,
	}
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
