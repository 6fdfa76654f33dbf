package model

import (
	"leap_assessment_backend/internal/scoring"

	"gorm.io/datatypes"
)

// AssessmentResponse is the persisted record of one completed assessment.
// Immutable after creation: there is no update path, and deletion is an
// administrative operation outside the normal flow.
type AssessmentResponse struct {
	UUIDBase
	UserID uint  `gorm:"index;type:bigint unsigned" json:"userId"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	AssessmentType AssessmentType `gorm:"size:20;not null" json:"assessmentType"`

	// LEAP composites.
	Leadership     int `json:"leadership"`
	Effectiveness  int `json:"effectiveness"`
	Accountability int `json:"accountability"`
	Productivity   int `json:"productivity"`

	// HATS category sums.
	HabitScore   int `json:"habitScore"`
	AbilityScore int `json:"abilityScore"`
	TalentScore  int `json:"talentScore"`
	SkillScore   int `json:"skillScore"`

	// Full per-question trace, denormalized with question text and chosen
	// label so report rendering never needs the (mutable) question bank.
	Answers datatypes.JSON `gorm:"type:json" json:"answers"`

	// Client-supplied key that makes retries safe: one logical submission
	// maps to at most one row.
	IdempotencyKey string `gorm:"size:64;uniqueIndex" json:"-"`

	// ReportObject is the storage key of the rendered PDF report, set once
	// the artifact has been uploaded.
	ReportObject string `gorm:"size:255" json:"reportObject,omitempty"`
}

func (AssessmentResponse) TableName() string {
	return "assessment_responses"
}

// AnswerRecord is one entry of the denormalized answer trace.
type AnswerRecord struct {
	QuestionID   uint             `json:"question_id"`
	Category     scoring.Category `json:"category,omitempty"`
	Score        int              `json:"score"`
	QuestionText string           `json:"question_text,omitempty"`
	ChosenLabel  string           `json:"chosen_label,omitempty"`
}

// CategoryScores reassembles the persisted sums as a scoring value.
func (r *AssessmentResponse) CategoryScores() scoring.CategoryScores {
	return scoring.CategoryScores{
		Habit:   r.HabitScore,
		Ability: r.AbilityScore,
		Talent:  r.TalentScore,
		Skill:   r.SkillScore,
	}
}

// LeapScores reassembles the persisted composites as a scoring value.
func (r *AssessmentResponse) LeapScores() scoring.LeapScores {
	return scoring.LeapScores{
		Leadership:     r.Leadership,
		Effectiveness:  r.Effectiveness,
		Accountability: r.Accountability,
		Productivity:   r.Productivity,
	}
}
