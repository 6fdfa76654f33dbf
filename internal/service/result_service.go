package service

import (
	"context"
	"errors"
	"time"

	"leap_assessment_backend/internal/config"
	"leap_assessment_backend/internal/model"
	"leap_assessment_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ResponseReader is the read side of the response repository.
type ResponseReader interface {
	FindByID(id string) (*model.AssessmentResponse, error)
	ListByUser(userID uint) ([]model.AssessmentResponse, error)
	List(page, limit int, assessmentType string) ([]model.AssessmentResponse, int64, error)
}

// ResultRateLimiter gates result lookups per client address. retryAfter is
// in seconds and only meaningful when allowed is false.
type ResultRateLimiter interface {
	Allow(ctx context.Context, clientAddr string) (allowed bool, retryAfter int, err error)
}

// ResultService decides, per request, whether a requester may read one
// assessment response by its opaque identifier.
type ResultService struct {
	Responses ResponseReader
	Limiter   ResultRateLimiter
	Cfg       *config.Config
}

func NewResultService(responses ResponseReader, limiter ResultRateLimiter, cfg *config.Config) *ResultService {
	return &ResultService{
		Responses: responses,
		Limiter:   limiter,
		Cfg:       cfg,
	}
}

// GetResponse applies rate limiting, lookup and the access decision in that
// order. claims is nil for anonymous or invalid-token requests — an invalid
// token is treated exactly like no token, so the recency fallback still
// applies.
func (s *ResultService) GetResponse(ctx context.Context, responseID string, claims *util.Claims, clientAddr string) (*model.AssessmentResponse, error) {
	allowed, retryAfter, err := s.Limiter.Allow(ctx, clientAddr)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, &util.RateLimitedError{RetryAfterSeconds: retryAfter}
	}

	resp, err := s.Responses.FindByID(responseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrResponseNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := Decide(claims, resp, time.Now(), s.Cfg.Results.AnonymousWindow); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListMine returns the authenticated caller's own responses.
func (s *ResultService) ListMine(claims *util.Claims) ([]model.AssessmentResponse, error) {
	if claims == nil {
		return nil, util.ErrUnauthorized
	}
	return s.Responses.ListByUser(claims.UserID)
}

// ListAll is the admin view over every stored response.
func (s *ResultService) ListAll(page, limit int, assessmentType string) ([]model.AssessmentResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.Responses.List(page, limit, assessmentType)
}

// Decide is the access gate decision table. Authenticated requesters read
// their own records or, as admins, anyone's. Anonymous requesters get a
// short post-creation window so a fresh result can be viewed before any
// sign-in friction; past it, only the owning account may return.
func Decide(claims *util.Claims, resp *model.AssessmentResponse, now time.Time, anonymousWindow time.Duration) error {
	if claims != nil {
		if claims.UserID == resp.UserID || claims.IsAdmin() {
			return nil
		}
		return util.ErrUnauthorized
	}

	if now.Sub(resp.CreatedAt) <= anonymousWindow {
		return nil
	}
	return util.ErrUnauthorized
}

// RedisResultLimiter is a fixed-window counter per client address.
type RedisResultLimiter struct {
	Redis  *redis.Client
	Max    int
	Window time.Duration
}

func NewRedisResultLimiter(rdb *redis.Client, cfg *config.Config) *RedisResultLimiter {
	return &RedisResultLimiter{
		Redis:  rdb,
		Max:    cfg.Results.RateMaxRequests,
		Window: cfg.Results.RateWindow,
	}
}

func (l *RedisResultLimiter) Allow(ctx context.Context, clientAddr string) (bool, int, error) {
	key := "results:rl:" + clientAddr

	count, err := l.Redis.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		l.Redis.Expire(ctx, key, l.Window)
	}

	if count > int64(l.Max) {
		ttl, err := l.Redis.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = l.Window
		}
		return false, int(ttl.Seconds()) + 1, nil
	}
	return true, 0, nil
}
