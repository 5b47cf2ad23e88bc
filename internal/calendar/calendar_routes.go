package calendar

import (
	"ippis-portal/internal/backend"
	"ippis-portal/internal/events"
	"ippis-portal/internal/middleware"
	"ippis-portal/internal/shared/crud"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	Events crud.Routes
	Leaves crud.Routes
	Feed   *FeedHandler
}

func NewHandlers(client *backend.Client, publisher events.Publisher, logger ...*zap.Logger) Handlers {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}

	eventStore := backend.NewResource[Event](client, "calendar_event", "/calendar-events")
	leaveStore := backend.NewResource[Leave](client, "leave", "/leaves")

	eventSvc := crud.NewService[Event](eventStore, crud.Config{Resource: "calendar_event"}, nil, publisher, l)
	leaveSvc := crud.NewService[Leave](leaveStore, crud.Config{Resource: "leave"}, nil, publisher, l)

	return Handlers{
		Events: crud.NewHandler[Event, EventRequest, EventRequest](eventSvc, "calendar_event", []string{"from", "to", "category"}, l),
		Leaves: crud.NewHandler[Leave, LeaveRequest, LeaveRequest](leaveSvc, "leave", []string{"employee_id", "status", "leave_type", "from", "to"}, l),
		Feed:   NewFeedHandler(NewFeedService(eventStore, leaveStore, l), l),
	}
}

func RegisterRoutes(r *gin.RouterGroup, h Handlers, rbacService middleware.RBACService, auth gin.HandlerFunc, logger *zap.Logger) {
	ctxLogger := middleware.ContextLogger(logger)

	feed := r.Group("/calendar")
	feed.Use(auth, ctxLogger)
	feed.GET("/feed",
		middleware.RateLimitByUser(2, 5),
		middleware.RBACAuthorize(rbacService, "calendar_event", "read"),
		middleware.RBACAuthorize(rbacService, "leave", "read"),
		h.Feed.Feed,
	)

	crud.RegisterRoutes(r, "/calendar/events", "calendar_event", h.Events, rbacService, auth, ctxLogger)
	crud.RegisterRoutes(r, "/leaves", "leave", h.Leaves, rbacService, auth, ctxLogger)
}
