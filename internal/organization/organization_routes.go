package organization

import (
	"ippis-portal/internal/backend"
	"ippis-portal/internal/events"
	"ippis-portal/internal/middleware"
	"ippis-portal/internal/shared/crud"
	"ippis-portal/internal/shared/optioncache"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OptionsKeyPrefix returns the Redis key prefix for a kind's option list, e.g. "org:department:options:".
func OptionsKeyPrefix(kind string) string {
	return "org:" + kind + ":options:"
}

type kindRoute struct {
	kind    string
	path    string
	handler crud.Routes
}

type Handlers struct {
	kinds []kindRoute
}

func newKind[T crud.Record, Req any](client *backend.Client, kind, path string, filters []string, cache *optioncache.Cache, publisher events.Publisher, logger *zap.Logger) kindRoute {
	svc := crud.NewService[T](
		backend.NewResource[T](client, kind, path),
		crud.Config{Resource: kind, OptionsKeyPrefix: OptionsKeyPrefix(kind)},
		cache, publisher, logger,
	)
	return kindRoute{
		kind:    kind,
		path:    path,
		handler: crud.NewHandler[T, Req, Req](svc, kind, filters, logger),
	}
}

func NewHandlers(client *backend.Client, cache *optioncache.Cache, publisher events.Publisher, logger ...*zap.Logger) Handlers {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return Handlers{kinds: []kindRoute{
		newKind[Company, CompanyRequest](client, "company", "/companies", []string{"is_active"}, cache, publisher, l),
		newKind[Department, DepartmentRequest](client, "department", "/departments", nil, cache, publisher, l),
		newKind[Designation, DesignationRequest](client, "designation", "/designations", []string{"department_id"}, cache, publisher, l),
		newKind[Location, LocationRequest](client, "location", "/locations", []string{"state"}, cache, publisher, l),
		newKind[Project, ProjectRequest](client, "project", "/projects", []string{"status"}, cache, publisher, l),
	}}
}

func RegisterRoutes(r *gin.RouterGroup, h Handlers, rbacService middleware.RBACService, auth gin.HandlerFunc, logger *zap.Logger) {
	ctxLogger := middleware.ContextLogger(logger)
	for _, k := range h.kinds {
		crud.RegisterRoutes(r, k.path, k.kind, k.handler, rbacService, auth, ctxLogger)
	}
}
