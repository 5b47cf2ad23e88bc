package verification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ippis-portal/internal/metrics"
	"ippis-portal/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	cacheKeyPrefix  = "nin:"
	DefaultCacheTTL = 24 * time.Hour
)

func CacheKey(nin string) string { return cacheKeyPrefix + nin }

//go:generate mockgen -source=verification_service.go -destination=mock/verification_service_mock.go -package=mock
type Service interface {
	VerifyNIN(ctx context.Context, req VerifyNINRequest) (Result, error)
}

type service struct {
	provider Provider
	rdb      *redis.Client
	ttl      time.Duration
	group    singleflight.Group
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(provider Provider, rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("verification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("verification.service")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &service{provider: provider, rdb: rdb, ttl: ttl, now: time.Now, logger: l}
}

func (s *service) VerifyNIN(ctx context.Context, req VerifyNINRequest) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("verify nin", zap.String("nin", mask(req.NIN)))

	entry, err := s.lookup(ctx, req.NIN)
	if err != nil {
		metrics.ObserveNINVerification("error")
		log.Error("nin lookup failed", zap.String("nin", mask(req.NIN)), zap.Error(err))
		return Result{}, err
	}

	res := Compare(req, entry)
	switch {
	case !entry.Found:
		metrics.ObserveNINVerification("not_found")
	case res.Verified:
		metrics.ObserveNINVerification("verified")
	default:
		metrics.ObserveNINVerification("mismatch")
	}
	log.Info("nin verified", zap.String("nin", mask(req.NIN)), zap.Bool("verified", res.Verified))
	return res, nil
}

// lookup answers from Redis when possible; concurrent misses for one NIN share a single
// provider call.
func (s *service) lookup(ctx context.Context, nin string) (lookupEntry, error) {
	key := CacheKey(nin)
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var cached lookupEntry
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("nin cache read failed", zap.Error(err))
		}
	}

	// The shared call outlives any single caller; each waiter still honours its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		id, err := s.provider.Lookup(shared, nin)
		entry := lookupEntry{At: s.now().UTC()}
		switch {
		case errors.Is(err, ErrIdentityNotFound):
		case err != nil:
			return lookupEntry{}, err
		default:
			entry.Found = true
			entry.Identity = id
		}

		if s.rdb != nil {
			if b, mErr := json.Marshal(entry); mErr == nil {
				if setErr := s.rdb.Set(shared, key, b, s.ttl).Err(); setErr != nil {
					s.logger.Warn("nin cache write failed", zap.Error(setErr))
				}
			}
		}
		return entry, nil
	})

	select {
	case <-ctx.Done():
		return lookupEntry{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return lookupEntry{}, r.Err
		}
		return r.Val.(lookupEntry), nil
	}
}

func mask(nin string) string {
	if len(nin) < 4 {
		return "****"
	}
	return "*******" + nin[len(nin)-4:]
}
