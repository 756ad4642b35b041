package types

import "strings"

// Predicate is a named completion check over the candidate state.
// The progress model and the step prerequisites share these so they never disagree.
type Predicate struct {
	Name  string
	Check func(CandidateState) bool
}

// Named completion predicates, in workflow order.
var (
	HasResume = Predicate{Name: "resume", Check: func(s CandidateState) bool {
		return len(s.CandidateSkills) > 0
	}}
	HasJobDescription = Predicate{Name: "job_description", Check: func(s CandidateState) bool {
		return strings.TrimSpace(StringValue(s.JDText)) != "" || len(s.JDSkills) > 0
	}}
	HasJobSkills = Predicate{Name: "job_skills", Check: func(s CandidateState) bool {
		return len(s.JDSkills) > 0
	}}
	HasMatchScore = Predicate{Name: "match_score", Check: func(s CandidateState) bool {
		return s.MatchScore.Positive()
	}}
	HasMatchResult = Predicate{Name: "match_result", Check: func(s CandidateState) bool {
		return len(s.MatchedSkills) > 0 || len(s.MissingSkills) > 0
	}}
	HasSkillResources = Predicate{Name: "skill_resources", Check: func(s CandidateState) bool {
		return len(s.SkillResources) > 0
	}}
	HasAssessment = Predicate{Name: "assessment", Check: func(s CandidateState) bool {
		return len(s.MCQs) > 0
	}}
	HasInterview = Predicate{Name: "interview", Check: func(s CandidateState) bool {
		return len(s.InterviewQuestions) > 0
	}}
	HasFeedback = Predicate{Name: "feedback", Check: func(s CandidateState) bool {
		return !s.Feedback.Empty()
	}}
)

// Satisfied evaluates the predicate.
func (p Predicate) Satisfied(s CandidateState) bool {
	if p.Check == nil {
		return false
	}
	return p.Check(s)
}
