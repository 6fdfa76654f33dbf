package model

import (
	"encoding/json"

	"leap_assessment_backend/internal/scoring"

	"gorm.io/datatypes"
)

type AssessmentType string

const (
	AssessmentIndividual AssessmentType = "individual"
	AssessmentTeam       AssessmentType = "team"
)

// QuestionOption is one choice on the 1-4 agreement scale.
type QuestionOption struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

type Question struct {
	BaseModel
	AssessmentType AssessmentType   `gorm:"size:20;index;not null" json:"assessmentType"`
	Category       scoring.Category `gorm:"size:20;index;not null" json:"category"`
	Text           string           `gorm:"type:text;not null" json:"text"`
	Options        datatypes.JSON   `gorm:"type:json" json:"options"`
	Order          int              `gorm:"column:sort_order" json:"order"`
	Enabled        bool             `gorm:"default:true" json:"enabled"`
}

func (Question) TableName() string {
	return "questions"
}

// DefaultOptionScale is the standard agree/disagree scale shared by every
// seeded question.
func DefaultOptionScale() datatypes.JSON {
	opts := []QuestionOption{
		{Label: "Strongly disagree", Points: 1},
		{Label: "Disagree", Points: 2},
		{Label: "Agree", Points: 3},
		{Label: "Strongly agree", Points: 4},
	}
	raw, _ := json.Marshal(opts)
	return raw
}
