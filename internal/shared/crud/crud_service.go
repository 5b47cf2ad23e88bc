package crud

import (
	"context"

	"ippis-portal/internal/backend"
	"ippis-portal/internal/events"
	"ippis-portal/internal/shared/contextutil"
	"ippis-portal/internal/shared/optioncache"

	"go.uber.org/zap"
)

// Record is a backend DTO that can name itself in option lists and activity events.
type Record interface {
	RecordID() string
	RecordLabel() string
}

// Store is the subset of backend.Resource the services need.
type Store[T any] interface {
	Name() string
	List(ctx context.Context, q backend.ListQuery) ([]T, backend.ListMeta, error)
	ListAll(ctx context.Context, q backend.ListQuery, pageSize int) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, payload any) (T, error)
	Update(ctx context.Context, id string, payload any) (T, error)
	Delete(ctx context.Context, id string) error
}

type Service[T Record] interface {
	List(ctx context.Context, q backend.ListQuery) ([]T, backend.ListMeta, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, payload any) (T, error)
	Update(ctx context.Context, id string, payload any) (T, error)
	Delete(ctx context.Context, id string) error
	Options(ctx context.Context) ([]optioncache.Option, error)
}

type Config struct {
	// Resource is the RBAC resource and the activity resource name, e.g. "department".
	Resource string
	// OptionsKeyPrefix enables option caching, e.g. "org:department:options:".
	OptionsKeyPrefix string
	// CreatedEvent overrides events.RecordCreated.
	CreatedEvent string
	UpdatedEvent string
	DeletedEvent string
}

type service[T Record] struct {
	store     Store[T]
	cfg       Config
	cache     *optioncache.Cache
	publisher events.Publisher
	logger    *zap.Logger
}

func NewService[T Record](store Store[T], cfg Config, cache *optioncache.Cache, publisher events.Publisher, logger ...*zap.Logger) Service[T] {
	name := cfg.Resource + ".service"
	l := zap.L().Named(name)
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named(name)
	}
	if cfg.CreatedEvent == "" {
		cfg.CreatedEvent = events.RecordCreated
	}
	if cfg.UpdatedEvent == "" {
		cfg.UpdatedEvent = events.RecordUpdated
	}
	if cfg.DeletedEvent == "" {
		cfg.DeletedEvent = events.RecordDeleted
	}
	if cache == nil {
		cache = optioncache.New(nil, 0, l)
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &service[T]{store: store, cfg: cfg, cache: cache, publisher: publisher, logger: l}
}

func (s *service[T]) List(ctx context.Context, q backend.ListQuery) ([]T, backend.ListMeta, error) {
	s.logger.Debug("list requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.Int("page", q.Page),
		zap.String("search", q.Search),
	)
	items, meta, err := s.store.List(ctx, q)
	if err != nil {
		s.logger.Error("list failed", zap.Error(err))
		return nil, backend.ListMeta{}, err
	}
	return items, meta, nil
}

func (s *service[T]) Get(ctx context.Context, id string) (T, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		s.logger.Warn("get failed", zap.String("id", id), zap.Error(err))
	}
	return item, err
}

func (s *service[T]) Create(ctx context.Context, payload any) (T, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create requested", zap.String("request_id", rid))

	item, err := s.store.Create(ctx, payload)
	if err != nil {
		s.logger.Error("create failed", zap.String("request_id", rid), zap.Error(err))
		return item, err
	}

	s.invalidateOptions(ctx)
	s.publish(ctx, s.cfg.CreatedEvent, item.RecordID(), item.RecordLabel()+" created")
	s.logger.Info("create success", zap.String("request_id", rid), zap.String("id", item.RecordID()))
	return item, nil
}

func (s *service[T]) Update(ctx context.Context, id string, payload any) (T, error) {
	s.logger.Debug("update requested", zap.String("id", id))

	item, err := s.store.Update(ctx, id, payload)
	if err != nil {
		s.logger.Error("update failed", zap.String("id", id), zap.Error(err))
		return item, err
	}

	s.invalidateOptions(ctx)
	s.publish(ctx, s.cfg.UpdatedEvent, id, item.RecordLabel()+" updated")
	s.logger.Info("update success", zap.String("id", id))
	return item, nil
}

func (s *service[T]) Delete(ctx context.Context, id string) error {
	s.logger.Debug("delete requested", zap.String("id", id))

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Error("delete failed", zap.String("id", id), zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx)
	s.publish(ctx, s.cfg.DeletedEvent, id, s.cfg.Resource+" "+id+" deleted")
	s.logger.Info("delete success", zap.String("id", id))
	return nil
}

func (s *service[T]) Options(ctx context.Context) ([]optioncache.Option, error) {
	load := func(ctx context.Context) ([]optioncache.Option, error) {
		items, err := s.store.ListAll(ctx, backend.ListQuery{}, 100)
		if err != nil {
			return nil, err
		}
		opts := make([]optioncache.Option, len(items))
		for i, item := range items {
			opts[i] = optioncache.Option{ID: item.RecordID(), Label: item.RecordLabel()}
		}
		return opts, nil
	}

	if s.cfg.OptionsKeyPrefix == "" {
		return load(ctx)
	}
	return s.cache.Get(ctx, s.cfg.OptionsKeyPrefix+contextutil.GetCompanyID(ctx), load)
}

func (s *service[T]) invalidateOptions(ctx context.Context) {
	if s.cfg.OptionsKeyPrefix == "" {
		return
	}
	s.cache.Invalidate(ctx, s.cfg.OptionsKeyPrefix+contextutil.GetCompanyID(ctx))
}

// publish never fails the request: the backend write already happened.
func (s *service[T]) publish(ctx context.Context, eventType, id, summary string) {
	event := events.NewActivityEvent(ctx, eventType, s.cfg.Resource, id, summary)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("activity enqueue failed",
			zap.String("event_type", eventType),
			zap.String("resource_id", id),
			zap.Error(err),
		)
	}
}
