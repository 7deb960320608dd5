package service

import (
	"context"
	"time"
)

const (
	TopicProfileEvents = "profile.events"
	TopicUserEvents    = "user.events"
	TopicPostEvents    = "post.events"
)

type EventType string

const (
	EventProfileUpserted   EventType = "profile.upserted"
	EventProfileDeleted    EventType = "profile.deleted"
	EventExperienceAdded   EventType = "profile.experience_added"
	EventExperienceRemoved EventType = "profile.experience_removed"
	EventEducationAdded    EventType = "profile.education_added"
	EventEducationRemoved  EventType = "profile.education_removed"
	EventUserRegistered    EventType = "user.registered"
	EventUserDeleted       EventType = "user.deleted"
	EventAvatarChanged     EventType = "user.avatar_changed"
	EventPostCreated       EventType = "post.created"
	EventPostDeleted       EventType = "post.deleted"
)

type DomainEvent struct {
	Topic      string    `json:"-"`
	Type       EventType `json:"event_type"`
	UserID     string    `json:"user_id"`
	ResourceID string    `json:"resource_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(topic string, t EventType, userID, resourceID string) DomainEvent {
	return DomainEvent{
		Topic:      topic,
		Type:       t,
		UserID:     userID,
		ResourceID: resourceID,
		OccurredAt: time.Now().UTC(),
	}
}

// EventPublisher delivers domain events. Callers treat delivery as best
// effort: a failure is logged and never undoes the mutation.
type EventPublisher interface {
	Publish(ctx context.Context, evt DomainEvent) error
}
