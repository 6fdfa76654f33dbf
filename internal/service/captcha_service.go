package service

import (
	"context"
	"fmt"
	"math"

	"leap_assessment_backend/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// CaptchaService is the bot-verification collaborator: the quiz UI submits a
// slider trajectory, a passing trajectory mints a one-shot token, and the
// submission coordinator burns the token at persist time.
type CaptchaService struct {
	Redis *redis.Client
	Cfg   *config.Config
}

type TrajectoryPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
	T int `json:"t"`
}

func NewCaptchaService(rdb *redis.Client, cfg *config.Config) *CaptchaService {
	return &CaptchaService{
		Redis: rdb,
		Cfg:   cfg,
	}
}

// VerifyTrajectory validates a slider trajectory and issues a short-lived
// token on success.
func (s *CaptchaService) VerifyTrajectory(ctx context.Context, trajectory []TrajectoryPoint, duration int) (string, error) {
	if len(trajectory) < 10 {
		return "", fmt.Errorf("trajectory too short")
	}

	if !analyzeTrajectory(trajectory, duration) {
		return "", fmt.Errorf("human machine verification failed")
	}

	captchaToken := uuid.New().String()

	err := s.Redis.Set(ctx, "captcha:"+captchaToken, "verified", s.Cfg.Captcha.TokenTTL).Err()
	if err != nil {
		return "", err
	}

	return captchaToken, nil
}

// ValidateToken consumes a captcha token. Tokens are single-use.
func (s *CaptchaService) ValidateToken(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}

	key := "captcha:" + token
	val, err := s.Redis.Get(ctx, key).Result()
	if err != nil || val != "verified" {
		return false
	}

	s.Redis.Del(ctx, key)
	return true
}

// analyzeTrajectory applies cheap heuristics over the pointer path: humans
// take a plausible amount of time and do not move in a perfectly straight
// short line.
func analyzeTrajectory(trajectory []TrajectoryPoint, duration int) bool {
	if duration < 200 || duration > 10000 {
		return false
	}

	var totalDistance float64

	for i := 1; i < len(trajectory); i++ {
		dx := float64(trajectory[i].X - trajectory[i-1].X)
		dy := float64(trajectory[i].Y - trajectory[i-1].Y)
		totalDistance += math.Sqrt(dx*dx + dy*dy)
	}

	return totalDistance >= 50
}
