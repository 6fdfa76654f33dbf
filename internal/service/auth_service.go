package service

import (
	"context"
	"errors"

	"leap_assessment_backend/internal/config"
	"leap_assessment_backend/internal/model"
	"leap_assessment_backend/internal/repository"
	"leap_assessment_backend/internal/util"
	"leap_assessment_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles magic-link sign-in for respondents and password
// sign-in for admins. Actual email delivery is an external collaborator:
// RequestMagicLink hands the token back for the mailer to send.
type AuthService struct {
	UserRepo *repository.UserRepository
	Redis    *redis.Client
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Redis:    rdb,
		Cfg:      cfg,
	}
}

// RequestMagicLink issues a one-shot login token for a known email. Unknown
// emails succeed silently with no token, so the endpoint cannot be used to
// enumerate accounts.
func (s *AuthService) RequestMagicLink(ctx context.Context, email string) (string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	token := uuid.New().String()
	if err := s.Redis.Set(ctx, "magiclink:"+token, user.ID, s.Cfg.MagicLink.TokenTTL).Err(); err != nil {
		return "", err
	}

	logger.Log.Info("magic link issued", zap.Uint("userId", user.ID))
	return token, nil
}

// VerifyMagicLink consumes a login token and returns a session JWT. The
// token is deleted before use so it cannot be replayed.
func (s *AuthService) VerifyMagicLink(ctx context.Context, token string) (string, *model.User, error) {
	if token == "" {
		return "", nil, util.ErrUnauthorized
	}

	userID, err := s.Redis.GetDel(ctx, "magiclink:"+token).Uint64()
	if err != nil {
		return "", nil, util.ErrUnauthorized
	}

	user, err := s.UserRepo.FindByID(uint(userID))
	if err != nil {
		return "", nil, util.ErrUserNotFound
	}

	if !user.EmailConfirmed {
		user.EmailConfirmed = true
		if err := s.UserRepo.Update(user); err != nil {
			return "", nil, err
		}
	}
	_ = s.UserRepo.UpdateLastLogin(user.ID)

	jwt, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return jwt, user, nil
}

// AdminLogin authenticates an admin by password.
func (s *AuthService) AdminLogin(email, password string) (string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", util.ErrInvalidCredentials
	}
	if user.Role != model.RoleAdmin {
		return "", util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", util.ErrInvalidCredentials
	}

	_ = s.UserRepo.UpdateLastLogin(user.ID)
	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

// GetCurrentUser loads the full profile behind a set of claims.
func (s *AuthService) GetCurrentUser(claims *util.Claims) (*model.User, error) {
	if claims == nil {
		return nil, util.ErrUnauthorized
	}
	return s.UserRepo.FindByID(claims.UserID)
}
