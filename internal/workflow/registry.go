// Package workflow sequences the candidate evaluation steps: prerequisite checks,
// one remote action at a time per step, and merging responses into the session record.
package workflow

import (
	"fmt"
	"strings"

	"github.com/jonathan/talentfit/internal/routes"
	"github.com/jonathan/talentfit/internal/types"
)

// Step names a workflow step.
type Step string

// Workflow steps in order.
const (
	StepResume         Step = "resume"
	StepJobDescription Step = "job_description"
	StepMatching       Step = "matching"
	StepSkillGap       Step = "skill_gap"
	StepAssessment     Step = "assessment"
	StepInterview      Step = "interview"
	StepResults        Step = "results"
)

// Missing reasons that are not state predicates.
const (
	MissingSession = "session"
	MissingResults = "interview_results"
)

// Prerequisite is one ordered check a step runs on entry.
type Prerequisite struct {
	Predicate types.Predicate
	Redirect  Step
	Title     string
	Message   string
}

// StepDefinition defines metadata for a workflow step
type StepDefinition struct {
	Name          Step
	Route         string
	Title         string
	Prerequisites []Prerequisite
	// Fresh steps start a new record instead of extending the stored one.
	Fresh bool
	// RequiresResults steps read the interview results record rather than the session.
	RequiresResults bool
}

var (
	needResume = Prerequisite{
		Predicate: types.HasResume,
		Redirect:  StepResume,
		Title:     "Resume Required",
		Message:   "Please upload a resume first",
	}
	needJobSkills = Prerequisite{
		Predicate: types.HasJobSkills,
		Redirect:  StepJobDescription,
		Title:     "Job Description Required",
		Message:   "Please upload a job description first",
	}
	needMatch = Prerequisite{
		Predicate: types.HasMatchResult,
		Redirect:  StepMatching,
		Title:     "Matching Required",
		Message:   "Please complete candidate matching first",
	}
)

// Order lists the steps in workflow order.
var Order = []Step{
	StepResume, StepJobDescription, StepMatching, StepSkillGap,
	StepAssessment, StepInterview, StepResults,
}

// StepRegistry holds all step definitions
var StepRegistry = map[Step]StepDefinition{
	StepResume: {
		Name:  StepResume,
		Route: routes.UploadResume,
		Title: "Upload Resume",
		Fresh: true,
	},
	StepJobDescription: {
		Name:  StepJobDescription,
		Route: routes.UploadJD,
		Title: "Upload Job Description",
		Prerequisites: []Prerequisite{{
			Predicate: types.HasResume,
			Redirect:  StepResume,
			Title:     "Resume Required",
			Message:   "Please upload a resume first before adding job description",
		}},
	},
	StepMatching: {
		Name:          StepMatching,
		Route:         routes.Matching,
		Title:         "Matching",
		Prerequisites: []Prerequisite{needResume, needJobSkills},
	},
	StepSkillGap: {
		Name:          StepSkillGap,
		Route:         routes.SkillGap,
		Title:         "Skill Gap Analysis",
		Prerequisites: []Prerequisite{needMatch},
	},
	StepAssessment: {
		Name:          StepAssessment,
		Route:         routes.Assessment,
		Title:         "Create Assessment",
		Prerequisites: []Prerequisite{needMatch},
	},
	StepInterview: {
		Name:          StepInterview,
		Route:         routes.Interview,
		Title:         "Interview Questions",
		Prerequisites: []Prerequisite{needResume, needJobSkills},
	},
	StepResults: {
		Name:            StepResults,
		Route:           routes.InterviewDone,
		Title:           "Interview Results",
		RequiresResults: true,
	},
}

// Lookup returns the definition of name.
func Lookup(name Step) (StepDefinition, error) {
	def, ok := StepRegistry[name]
	if !ok {
		return StepDefinition{}, fmt.Errorf("unknown workflow step: %s", name)
	}
	return def, nil
}

// ForRoute returns the step served at path.
func ForRoute(path string) (StepDefinition, bool) {
	for _, def := range StepRegistry {
		if def.Route == path {
			return def, true
		}
	}
	return StepDefinition{}, false
}

// RouteOf returns the route of a step, or the resume upload route for unknown steps.
func RouteOf(name Step) string {
	if def, ok := StepRegistry[name]; ok {
		return def.Route
	}
	return routes.UploadResume
}

// Notice tells the visitor why they were sent elsewhere. It is not an error.
type Notice struct {
	Step     Step
	Missing  string
	Redirect Step
	Route    string
	Title    string
	Message  string
}

func (n *Notice) String() string {
	return fmt.Sprintf("%s: %s", n.Title, n.Message)
}

func noticeFor(step Step, p Prerequisite) *Notice {
	return &Notice{
		Step:     step,
		Missing:  p.Predicate.Name,
		Redirect: p.Redirect,
		Route:    RouteOf(p.Redirect),
		Title:    p.Title,
		Message:  p.Message,
	}
}

func sessionNotice(step Step) *Notice {
	return &Notice{
		Step:     step,
		Missing:  MissingSession,
		Redirect: StepResume,
		Route:    routes.UploadResume,
		Title:    "Resume Required",
		Message:  "Please upload a resume first",
	}
}

func resultsNotice(step Step) *Notice {
	return &Notice{
		Step:     step,
		Missing:  MissingResults,
		Redirect: StepInterview,
		Route:    routes.Interview,
		Title:    "No Results Found",
		Message:  "Please complete an interview first.",
	}
}

// CheckPrerequisites returns a notice for the first unmet prerequisite of name, or nil.
func CheckPrerequisites(name Step, state types.CandidateState) *Notice {
	def, ok := StepRegistry[name]
	if !ok {
		return nil
	}
	for _, p := range def.Prerequisites {
		if !p.Predicate.Satisfied(state) {
			return noticeFor(name, p)
		}
	}
	return nil
}

// PrerequisiteError is returned when an action is attempted before its prerequisites are met.
type PrerequisiteError struct {
	Step    Step
	Missing []string
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("step %s: missing prerequisites: %s", e.Step, strings.Join(e.Missing, ", "))
}

// ValidatePrerequisites checks every prerequisite of name and reports all that are unmet.
func ValidatePrerequisites(name Step, state types.CandidateState) error {
	def, err := Lookup(name)
	if err != nil {
		return err
	}

	var missing []string
	for _, p := range def.Prerequisites {
		if !p.Predicate.Satisfied(state) {
			missing = append(missing, p.Predicate.Name)
		}
	}
	if len(missing) > 0 {
		return &PrerequisiteError{Step: name, Missing: missing}
	}
	return nil
}
