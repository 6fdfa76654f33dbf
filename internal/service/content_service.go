package service

import (
	"encoding/json"
	"errors"

	"leap_assessment_backend/internal/model"
	"leap_assessment_backend/internal/repository"
	"leap_assessment_backend/internal/scoring"
	"leap_assessment_backend/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentService serves the HATS question bank: the quiz UI reads it per
// assessment type, admins manage it.
type ContentService struct {
	Questions *repository.QuestionRepository
}

func NewContentService(questions *repository.QuestionRepository) *ContentService {
	return &ContentService{Questions: questions}
}

func (s *ContentService) ListQuestions(assessmentType model.AssessmentType) ([]model.Question, error) {
	return s.Questions.ListByType(assessmentType)
}

func (s *ContentService) ListAllQuestions() ([]model.Question, error) {
	return s.Questions.ListAll()
}

type QuestionRequest struct {
	AssessmentType model.AssessmentType   `json:"assessmentType" binding:"required,oneof=individual team"`
	Category       scoring.Category       `json:"category" binding:"required,oneof=habit ability talent skill"`
	Text           string                 `json:"text" binding:"required"`
	Options        []model.QuestionOption `json:"options"`
	Order          int                    `json:"order"`
	Enabled        *bool                  `json:"enabled"`
}

func (req QuestionRequest) options() (datatypes.JSON, error) {
	if len(req.Options) == 0 {
		return model.DefaultOptionScale(), nil
	}
	raw, err := json.Marshal(req.Options)
	return raw, err
}

func (s *ContentService) CreateQuestion(req QuestionRequest) (*model.Question, error) {
	opts, err := req.options()
	if err != nil {
		return nil, err
	}

	q := &model.Question{
		AssessmentType: req.AssessmentType,
		Category:       req.Category,
		Text:           req.Text,
		Options:        opts,
		Order:          req.Order,
		Enabled:        true,
	}
	if req.Enabled != nil {
		q.Enabled = *req.Enabled
	}
	if err := s.Questions.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *ContentService) UpdateQuestion(id uint, req QuestionRequest) (*model.Question, error) {
	q, err := s.Questions.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}

	opts, err := req.options()
	if err != nil {
		return nil, err
	}

	q.AssessmentType = req.AssessmentType
	q.Category = req.Category
	q.Text = req.Text
	q.Options = opts
	q.Order = req.Order
	if req.Enabled != nil {
		q.Enabled = *req.Enabled
	}
	if err := s.Questions.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *ContentService) DeleteQuestion(id uint) error {
	return s.Questions.Delete(id)
}
