package activity

import (
	"time"

	"ippis-portal/internal/events"
)

// ActivityLog is one consumed activity event; ID is the event ID so redelivery is a no-op.
type ActivityLog struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID  string    `gorm:"type:varchar(64);not null;index:idx_activity_company_occurred,priority:1" json:"company_id"`
	EventType  string    `gorm:"type:varchar(100);not null" json:"event_type"`
	RequestID  string    `gorm:"type:varchar(100)" json:"request_id,omitempty"`
	ActorID    string    `gorm:"type:varchar(64)" json:"actor_id,omitempty"`
	Resource   string    `gorm:"type:varchar(100);not null" json:"resource"`
	ResourceID string    `gorm:"type:varchar(100)" json:"resource_id,omitempty"`
	Summary    string    `gorm:"type:text" json:"summary"`
	OccurredAt time.Time `gorm:"not null;index:idx_activity_company_occurred,priority:2,sort:desc" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

func FromEvent(e events.ActivityEvent) ActivityLog {
	return ActivityLog{
		ID:         e.ID,
		CompanyID:  e.CompanyID,
		EventType:  e.EventType,
		RequestID:  e.RequestID,
		ActorID:    e.ActorID,
		Resource:   e.Resource,
		ResourceID: e.ResourceID,
		Summary:    e.Summary,
		OccurredAt: e.OccurredAt,
	}
}
