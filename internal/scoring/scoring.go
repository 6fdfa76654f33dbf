// Package scoring implements the HATS/LEAP score pipeline: raw answers are
// summed into the four HATS category scores, which combine pairwise into the
// four LEAP composite dimensions. Everything here is pure integer arithmetic
// with no ordering dependency on the input.
package scoring

// Category is one of the four HATS answer categories.
type Category string

const (
	CategoryHabit   Category = "habit"
	CategoryAbility Category = "ability"
	CategoryTalent  Category = "talent"
	CategorySkill   Category = "skill"
)

// Categories returns the four known categories in canonical order.
func Categories() []Category {
	return []Category{CategoryHabit, CategoryAbility, CategoryTalent, CategorySkill}
}

// MaxPointsPerQuestion is the top of the per-question answer scale.
const MaxPointsPerQuestion = 4

// Answer is one respondent's choice for one question.
type Answer struct {
	QuestionID uint     `json:"question_id"`
	Category   Category `json:"category"`
	Points     int      `json:"score"`
}

// CategoryScores holds the per-category sums.
type CategoryScores struct {
	Habit   int `json:"habit"`
	Ability int `json:"ability"`
	Talent  int `json:"talent"`
	Skill   int `json:"skill"`
}

// LeapScores holds the four composite dimensions. Each composite is the sum
// of exactly two category scores, and each category feeds exactly two
// composites, so the composites always sum to twice the category total.
type LeapScores struct {
	Leadership     int `json:"leadership"`
	Effectiveness  int `json:"effectiveness"`
	Accountability int `json:"accountability"`
	Productivity   int `json:"productivity"`
}

// CalculateCategoryScores sums answer points per category. Answers carrying
// an unrecognized category are skipped rather than rejected; the question
// bank is the only source of categories, so anything else is stale client
// data, not a reportable error.
func CalculateCategoryScores(answers []Answer) CategoryScores {
	var cs CategoryScores
	for _, a := range answers {
		switch a.Category {
		case CategoryHabit:
			cs.Habit += a.Points
		case CategoryAbility:
			cs.Ability += a.Points
		case CategoryTalent:
			cs.Talent += a.Points
		case CategorySkill:
			cs.Skill += a.Points
		}
	}
	return cs
}

// CalculateLeapScores applies the fixed pairwise combinations.
func CalculateLeapScores(cs CategoryScores) LeapScores {
	return LeapScores{
		Leadership:     cs.Habit + cs.Talent,
		Effectiveness:  cs.Habit + cs.Ability,
		Accountability: cs.Ability + cs.Skill,
		Productivity:   cs.Talent + cs.Skill,
	}
}

// CalculateAllScores is the entry point external callers should use.
func CalculateAllScores(answers []Answer) (CategoryScores, LeapScores) {
	cs := CalculateCategoryScores(answers)
	return cs, CalculateLeapScores(cs)
}

// MaxScores reports the attainable maxima for an assessment with the given
// number of questions per category (report rendering uses this for scale
// labels).
func MaxScores(questionsPerCategory int) (CategoryScores, LeapScores) {
	max := questionsPerCategory * MaxPointsPerQuestion
	cs := CategoryScores{Habit: max, Ability: max, Talent: max, Skill: max}
	return cs, CalculateLeapScores(cs)
}
