package mq

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent 领域事件, 在数据库提交之后投递
type DomainEvent struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	ActorID    int64  `json:"actor_id"`
	TargetType string `json:"target_type"`
	TargetID   int64  `json:"target_id"`
	Present    bool   `json:"present"`
	Timestamp  int64  `json:"timestamp"`
}

// 事件类型同时作为 topic exchange 的 routing key
const (
	EventLikeToggled         = "like.toggled"
	EventSubscriptionToggled = "subscription.toggled"
	EventVideoCreated        = "video.created"
	EventVideoDeleted        = "video.deleted"
)

const (
	DefaultExchange = "videotube_events"
	EventQueue      = "videotube_event_queue"
)

func NewEvent(eventType string, actorID int64, targetType string, targetID int64, present bool) *DomainEvent {
	return &DomainEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		ActorID:    actorID,
		TargetType: targetType,
		TargetID:   targetID,
		Present:    present,
		Timestamp:  time.Now().Unix(),
	}
}
