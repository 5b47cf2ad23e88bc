package hrcase

import (
	"sort"

	"ippis-portal/internal/backend"
	"ippis-portal/internal/events"
	"ippis-portal/internal/shared/crud"

	"go.uber.org/zap"
)

// Kinds maps each case kind to its backend collection.
var Kinds = map[string]string{
	"transfer":    "/transfers",
	"complaint":   "/complaints",
	"warning":     "/warnings",
	"termination": "/terminations",
	"resignation": "/resignations",
	"award":       "/awards",
	"travel":      "/travels",
}

var listFilters = []string{"employee_id", "status", "from", "to"}

// Registry holds the handlers for every case kind.
type Registry map[string]crud.Routes

// KindNames returns the registered kinds in a stable order.
func (r Registry) KindNames() []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func newKind[T crud.Record, Req any](client *backend.Client, kind string, publisher events.Publisher, logger *zap.Logger) crud.Routes {
	store := backend.NewResource[T](client, kind, Kinds[kind])
	svc := crud.NewService[T](store, crud.Config{Resource: kind, CreatedEvent: events.CaseCreated}, nil, publisher, logger)
	return crud.NewHandler[T, Req, Req](svc, kind, listFilters, logger)
}

func NewRegistry(client *backend.Client, publisher events.Publisher, logger ...*zap.Logger) Registry {
	l := zap.L().Named("hrcase")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("hrcase")
	}
	return Registry{
		"transfer":    newKind[Transfer, TransferRequest](client, "transfer", publisher, l),
		"complaint":   newKind[Complaint, ComplaintRequest](client, "complaint", publisher, l),
		"warning":     newKind[Warning, WarningRequest](client, "warning", publisher, l),
		"termination": newKind[Termination, TerminationRequest](client, "termination", publisher, l),
		"resignation": newKind[Resignation, ResignationRequest](client, "resignation", publisher, l),
		"award":       newKind[Award, AwardRequest](client, "award", publisher, l),
		"travel":      newKind[Travel, TravelRequest](client, "travel", publisher, l),
	}
}
