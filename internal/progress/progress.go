// Package progress derives workflow completion from the candidate state.
package progress

import "github.com/jonathan/talentfit/internal/types"

// TerminalPhase is reported once every checklist item is satisfied.
const TerminalPhase = "Evaluation complete"

// Item is one weighted checklist entry.
type Item struct {
	Predicate types.Predicate
	Weight    int
	// Phase is the next-action label shown while this item is the first unsatisfied one.
	Phase string
}

// Checklist is the ordered completion checklist. Weights sum to 100.
var Checklist = []Item{
	{Predicate: types.HasResume, Weight: 15, Phase: "Upload a resume"},
	{Predicate: types.HasJobDescription, Weight: 20, Phase: "Upload job description"},
	{Predicate: types.HasMatchScore, Weight: 15, Phase: "Run candidate matching"},
	{Predicate: types.HasSkillResources, Weight: 15, Phase: "Analyze skill gaps"},
	{Predicate: types.HasAssessment, Weight: 10, Phase: "Generate assessment"},
	{Predicate: types.HasInterview, Weight: 15, Phase: "Generate interview questions"},
	{Predicate: types.HasFeedback, Weight: 10, Phase: "Submit interview for evaluation"},
}

// Result is the computed progress.
type Result struct {
	Percent int    `json:"percent"`
	Phase   string `json:"phase"`
}

// Compute sums the weights of satisfied items and reports the label of the first unsatisfied one.
// Items are independent, so later steps count even when an earlier one is missing.
func Compute(state types.CandidateState) Result {
	total := 0
	phase := ""
	for _, item := range Checklist {
		if item.Predicate.Satisfied(state) {
			total += item.Weight
			continue
		}
		if phase == "" {
			phase = item.Phase
		}
	}
	if phase == "" {
		phase = TerminalPhase
	}
	return Result{Percent: clamp(total, 0, 100), Phase: phase}
}

// Steps reports each checklist item and whether it is satisfied, in order.
func Steps(state types.CandidateState) []StepStatus {
	out := make([]StepStatus, 0, len(Checklist))
	for _, item := range Checklist {
		out = append(out, StepStatus{Label: item.Phase, Weight: item.Weight, Done: item.Predicate.Satisfied(state)})
	}
	return out
}

// StepStatus is one row of the dashboard checklist.
type StepStatus struct {
	Label  string
	Weight int
	Done   bool
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
