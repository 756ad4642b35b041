//nolint:revive // types is a standard Go package name pattern
package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicates(t *testing.T) {
	empty := NewCandidateState()
	for _, p := range []Predicate{
		HasResume, HasJobDescription, HasJobSkills, HasMatchScore, HasMatchResult,
		HasSkillResources, HasAssessment, HasInterview, HasFeedback,
	} {
		assert.False(t, p.Satisfied(empty), p.Name)
	}

	s := NewCandidateState()
	s.CandidateSkills = []string{"python"}
	assert.True(t, HasResume.Satisfied(s))

	s.JDText = StringPtr("   ")
	assert.False(t, HasJobDescription.Satisfied(s))
	s.JDSkills = []string{"sql"}
	assert.True(t, HasJobDescription.Satisfied(s))
	assert.True(t, HasJobSkills.Satisfied(s))

	s.MatchScore = Score(math.NaN())
	assert.False(t, HasMatchScore.Satisfied(s))
	s.MatchScore = 0.8
	assert.True(t, HasMatchScore.Satisfied(s))

	s.MissingSkills = []string{"sql"}
	assert.True(t, HasMatchResult.Satisfied(s))

	s.Feedback = TextFeedback(" ")
	assert.False(t, HasFeedback.Satisfied(s))
	s.Feedback = TextFeedback("good")
	assert.True(t, HasFeedback.Satisfied(s))

	assert.False(t, Predicate{Name: "none"}.Satisfied(s))
}
