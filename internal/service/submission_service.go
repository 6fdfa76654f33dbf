package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"leap_assessment_backend/internal/config"
	"leap_assessment_backend/internal/model"
	"leap_assessment_backend/internal/scoring"
	"leap_assessment_backend/internal/util"
	"leap_assessment_backend/pkg/logger"
	"leap_assessment_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResponseStore is what the coordinator needs from the response repository.
type ResponseStore interface {
	FindByIdempotencyKey(key string) (*model.AssessmentResponse, error)
	CreateWithOwner(contact model.ContactData, explicitUserID uint, resp *model.AssessmentResponse) error
}

// CaptchaVerifier burns a one-shot bot-verification token.
type CaptchaVerifier interface {
	ValidateToken(ctx context.Context, token string) bool
}

type SubmitAssessmentRequest struct {
	ContactData    model.ContactData    `json:"contactData" binding:"required"`
	UserID         uint                 `json:"userId"`
	AssessmentType model.AssessmentType `json:"assessmentType" binding:"required,oneof=individual team"`
	Scores         scoring.LeapScores   `json:"scores"`
	HabitScore     int                  `json:"habitScore"`
	AbilityScore   int                  `json:"abilityScore"`
	TalentScore    int                  `json:"talentScore"`
	SkillScore     int                  `json:"skillScore"`
	Answers        []model.AnswerRecord `json:"answers"`
	CaptchaToken   string               `json:"captchaToken"`
	IdempotencyKey string               `json:"idempotencyKey"`
}

// SubmissionService converts one completed client-side assessment into
// exactly one persisted response: receipt short-circuit, bot check, owner
// resolution and idempotent insert, in that order.
type SubmissionService struct {
	Responses ResponseStore
	Captcha   CaptchaVerifier
	Drafts    *DraftService
	Cfg       *config.Config
}

func NewSubmissionService(responses ResponseStore, captcha CaptchaVerifier, drafts *DraftService, cfg *config.Config) *SubmissionService {
	return &SubmissionService{
		Responses: responses,
		Captcha:   captcha,
		Drafts:    drafts,
		Cfg:       cfg,
	}
}

// Submit runs the coordinator protocol. clientID may be empty (no draft
// bookkeeping then); req.UserID is the already-authenticated caller identity
// when present.
func (s *SubmissionService) Submit(ctx context.Context, clientID string, req SubmitAssessmentRequest) (*model.AssessmentResponse, error) {
	// Receipt short-circuit comes before any captcha or store work.
	if clientID != "" {
		receipt, err := s.Drafts.GetReceipt(ctx, clientID)
		if err != nil {
			logger.Log.Warn("receipt lookup failed, continuing", zap.Error(err))
		} else if receipt != nil {
			return nil, &util.DuplicateSubmissionError{ResponseID: receipt.ResponseID}
		}
	}

	// A missing token skips verification unless policy requires it; a
	// present token must verify. Verification failures are never retried
	// here — the user has to re-solve the challenge.
	if req.CaptchaToken != "" {
		if !s.Captcha.ValidateToken(ctx, req.CaptchaToken) {
			return nil, util.ErrVerificationFailed
		}
	} else if s.Cfg.Captcha.Required {
		return nil, util.ErrVerificationFailed
	}

	key := req.IdempotencyKey
	if key == "" {
		key = DeriveIdempotencyKey(req.ContactData.Email, clientID)
	}

	if existing, err := s.Responses.FindByIdempotencyKey(key); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	categoryScores, leapScores := resolveScores(req)

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, err
	}

	resp := &model.AssessmentResponse{
		AssessmentType: req.AssessmentType,
		Leadership:     leapScores.Leadership,
		Effectiveness:  leapScores.Effectiveness,
		Accountability: leapScores.Accountability,
		Productivity:   leapScores.Productivity,
		HabitScore:     categoryScores.Habit,
		AbilityScore:   categoryScores.Ability,
		TalentScore:    categoryScores.Talent,
		SkillScore:     categoryScores.Skill,
		Answers:        answersJSON,
		IdempotencyKey: key,
	}

	if err := s.Responses.CreateWithOwner(req.ContactData, req.UserID, resp); err != nil {
		monitoring.SubmissionCounter.WithLabelValues(string(req.AssessmentType), "error").Inc()
		return nil, err
	}
	monitoring.SubmissionCounter.WithLabelValues(string(req.AssessmentType), "created").Inc()

	if clientID != "" {
		receipt := SubmissionReceipt{
			SubmittedEmail: strings.ToLower(strings.TrimSpace(req.ContactData.Email)),
			ResponseID:     resp.ID,
			SubmittedAt:    time.Now(),
		}
		if err := s.Drafts.RecordReceipt(ctx, clientID, receipt); err != nil && !errors.Is(err, util.ErrReceiptAlreadySet) {
			logger.Log.Warn("failed to record submission receipt", zap.Error(err), zap.String("responseId", resp.ID))
		}
	}

	return resp, nil
}

// DeriveIdempotencyKey builds the fallback key for clients that do not send
// one: same email from the same browser session collapses to one logical
// submission.
func DeriveIdempotencyKey(email, clientID string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email)) + ":" + clientID))
	return hex.EncodeToString(h[:])
}

// resolveScores recomputes scores server-side whenever the answer trace
// carries categories; client-supplied scores are only trusted when the trace
// has none to recompute from (older clients).
func resolveScores(req SubmitAssessmentRequest) (scoring.CategoryScores, scoring.LeapScores) {
	hasCategories := false
	answers := make([]scoring.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		if a.Category != "" {
			hasCategories = true
		}
		answers = append(answers, scoring.Answer{
			QuestionID: a.QuestionID,
			Category:   a.Category,
			Points:     a.Score,
		})
	}

	if hasCategories {
		return scoring.CalculateAllScores(answers)
	}

	return scoring.CategoryScores{
		Habit:   req.HabitScore,
		Ability: req.AbilityScore,
		Talent:  req.TalentScore,
		Skill:   req.SkillScore,
	}, req.Scores
}
