package events

import (
	"context"
	"time"

	"ippis-portal/internal/shared/contextutil"

	"github.com/google/uuid"
)

const ActivityTopic = "ippis.portal.activity.v1"

const (
	EmployeeCreated         = "employee.created"
	EmployeeUpdated         = "employee.updated"
	EmployeeDeleted         = "employee.deleted"
	EmployeeImportCompleted = "employee.import.completed"
	CaseCreated             = "case.created"
	DocumentUploaded        = "document.uploaded"
	RecordCreated           = "record.created"
	RecordUpdated           = "record.updated"
	RecordDeleted           = "record.deleted"
)

type ActivityEvent struct {
	ID         string    `json:"id"`
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	CompanyID  string    `json:"company_id"`
	ActorID    string    `json:"actor_id"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id"`
	Summary    string    `json:"summary"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewActivityEvent stamps the event with the request metadata carried by ctx.
func NewActivityEvent(ctx context.Context, eventType, resource, resourceID, summary string) ActivityEvent {
	md := contextutil.ExtractMetadata(ctx)
	return ActivityEvent{
		ID:         uuid.NewString(),
		EventType:  eventType,
		RequestID:  md.RequestID,
		CompanyID:  md.CompanyID,
		ActorID:    md.UserID,
		Resource:   resource,
		ResourceID: resourceID,
		Summary:    summary,
		OccurredAt: time.Now().UTC(),
	}
}

//go:generate mockgen -source=activity.go -destination=mock/activity_mock.go -package=mock
type Publisher interface {
	Publish(ctx context.Context, event ActivityEvent) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ActivityEvent) error { return nil }
