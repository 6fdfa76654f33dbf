package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateCategoryScoresEmpty(t *testing.T) {
	cs, ls := CalculateAllScores(nil)

	assert.Equal(t, CategoryScores{}, cs)
	assert.Equal(t, LeapScores{}, ls)
}

func TestCalculateCategoryScoresPermutationInvariant(t *testing.T) {
	answers := []Answer{
		{QuestionID: 1, Category: CategoryHabit, Points: 3},
		{QuestionID: 2, Category: CategoryHabit, Points: 2},
		{QuestionID: 3, Category: CategoryAbility, Points: 4},
		{QuestionID: 4, Category: CategoryTalent, Points: 1},
		{QuestionID: 5, Category: CategorySkill, Points: 2},
		{QuestionID: 6, Category: CategorySkill, Points: 4},
	}
	want := CalculateCategoryScores(answers)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]Answer, len(answers))
		copy(shuffled, answers)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, CalculateCategoryScores(shuffled))
	}
}

func TestCalculateLeapScoresSumIdentity(t *testing.T) {
	cases := []CategoryScores{
		{},
		{Habit: 5, Ability: 5, Talent: 5, Skill: 5},
		{Habit: 8, Ability: 3, Talent: 0, Skill: 12},
		{Habit: 1, Ability: 2, Talent: 3, Skill: 4},
	}
	for _, cs := range cases {
		ls := CalculateLeapScores(cs)
		compositeSum := ls.Leadership + ls.Effectiveness + ls.Accountability + ls.Productivity
		categorySum := cs.Habit + cs.Ability + cs.Talent + cs.Skill
		assert.Equal(t, 2*categorySum, compositeSum, "category scores %+v", cs)
	}
}

func TestCalculateAllScoresScenario(t *testing.T) {
	answers := []Answer{
		{Category: CategoryHabit, Points: 3},
		{Category: CategoryHabit, Points: 2},
		{Category: CategoryAbility, Points: 3},
		{Category: CategoryAbility, Points: 2},
		{Category: CategoryTalent, Points: 4},
		{Category: CategoryTalent, Points: 1},
		{Category: CategorySkill, Points: 3},
		{Category: CategorySkill, Points: 2},
	}

	cs, ls := CalculateAllScores(answers)

	require.Equal(t, CategoryScores{Habit: 5, Ability: 5, Talent: 5, Skill: 5}, cs)
	assert.Equal(t, LeapScores{Leadership: 10, Effectiveness: 10, Accountability: 10, Productivity: 10}, ls)
}

func TestCalculateCategoryScoresSkipsUnknownCategory(t *testing.T) {
	answers := []Answer{
		{Category: CategoryHabit, Points: 4},
		{Category: Category("charisma"), Points: 4},
	}

	cs := CalculateCategoryScores(answers)

	assert.Equal(t, CategoryScores{Habit: 4}, cs)
}

func TestMaxScores(t *testing.T) {
	// individual: two questions per category
	cs, ls := MaxScores(2)
	assert.Equal(t, CategoryScores{Habit: 8, Ability: 8, Talent: 8, Skill: 8}, cs)
	assert.Equal(t, LeapScores{Leadership: 16, Effectiveness: 16, Accountability: 16, Productivity: 16}, ls)

	// team: three questions per category
	cs, ls = MaxScores(3)
	assert.Equal(t, CategoryScores{Habit: 12, Ability: 12, Talent: 12, Skill: 12}, cs)
	assert.Equal(t, LeapScores{Leadership: 24, Effectiveness: 24, Accountability: 24, Productivity: 24}, ls)
}
