package performance

import (
	"ippis-portal/internal/backend"
	"ippis-portal/internal/events"
	"ippis-portal/internal/middleware"
	"ippis-portal/internal/shared/crud"
	"ippis-portal/internal/shared/optioncache"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const GoalTypeOptionsKeyPrefix = "performance:goal_type:options:"

type Handlers struct {
	GoalTypes crud.Routes
	Goals     crud.Routes
}

func NewHandlers(client *backend.Client, cache *optioncache.Cache, publisher events.Publisher, logger ...*zap.Logger) Handlers {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}

	goalTypes := crud.NewService[GoalType](
		backend.NewResource[GoalType](client, "goal_type", "/goal-types"),
		crud.Config{Resource: "goal_type", OptionsKeyPrefix: GoalTypeOptionsKeyPrefix},
		cache, publisher, l,
	)
	goals := crud.NewService[Goal](
		backend.NewResource[Goal](client, "goal", "/goals"),
		crud.Config{Resource: "goal"},
		cache, publisher, l,
	)

	return Handlers{
		GoalTypes: crud.NewHandler[GoalType, GoalTypeRequest, GoalTypeRequest](goalTypes, "goal_type", nil, l),
		Goals:     crud.NewHandler[Goal, GoalRequest, GoalRequest](goals, "goal", []string{"employee_id", "goal_type_id", "status"}, l),
	}
}

func RegisterRoutes(r *gin.RouterGroup, h Handlers, rbacService middleware.RBACService, auth gin.HandlerFunc, logger *zap.Logger) {
	crud.RegisterRoutes(r, "/goal-types", "goal_type", h.GoalTypes, rbacService, auth, middleware.ContextLogger(logger))
	crud.RegisterRoutes(r, "/goals", "goal", h.Goals, rbacService, auth, middleware.ContextLogger(logger))
}
