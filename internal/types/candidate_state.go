// Package types provides type definitions for the candidate-evaluation workflow data exchanged with the
// remote workflow service and persisted between runs.
package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Score is a numeric result. Match scores from the remote service are fractions in
// [0,1]; the locally graded mcq_score is a percent in [0,100].
// Decoding is lenient: numeric strings are accepted and anything non-numeric becomes NaN,
// which every completion predicate treats as unsatisfied.
type Score float64

// Valid reports whether the score is a finite number.
func (s Score) Valid() bool {
	f := float64(s)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Positive reports whether the score is finite and greater than zero.
func (s Score) Positive() bool {
	return s.Valid() && s > 0
}

// Float returns the score as a float64, with invalid values mapped to 0.
func (s Score) Float() float64 {
	if !s.Valid() {
		return 0
	}
	return float64(s)
}

// MarshalJSON encodes invalid scores as 0 since JSON has no NaN.
func (s Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Float())
}

// UnmarshalJSON implements lenient decoding.
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*s = Score(f)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if parsed, perr := strconv.ParseFloat(strings.TrimSpace(str), 64); perr == nil {
			*s = Score(parsed)
			return nil
		}
	}

	*s = Score(math.NaN())
	return nil
}

// LearningResource is one recommended resource for closing a skill gap.
type LearningResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// UnmarshalJSON accepts "title" as an alias for "name".
func (r *LearningResource) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  string `json:"name"`
		Title string `json:"title"`
		URL   string `json:"url"`
		Type  string `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Name = raw.Name
	if r.Name == "" {
		r.Name = raw.Title
	}
	r.URL = raw.URL
	r.Type = raw.Type
	return nil
}

// MCQQuestion is a single multiple-choice assessment question.
type MCQQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// InterviewQuestion is a generated interview question.
type InterviewQuestion struct {
	Type     string `json:"type"`
	Question string `json:"question"`
}

// CandidateState is the accumulated output of every workflow step.
// Wire keys match the remote workflow service.
type CandidateState struct {
	// Resume
	ResumeFile          *string  `json:"resume_file,omitempty"`
	ResumeText          *string  `json:"resume_text,omitempty"`
	ResumeClean         *string  `json:"resume_clean,omitempty"`
	ResumeSentences     []string `json:"resume_sentences"`
	ResumeWords         []string `json:"resume_words"`
	CandidateSkills     []string `json:"candidate_skills"`
	Education           []string `json:"education"`
	CandidateExperience *string  `json:"candidate_experience,omitempty"`

	// Job description
	JDFilePath   *string  `json:"jd_file_path,omitempty"`
	JDText       *string  `json:"jd_text,omitempty"`
	JDClean      *string  `json:"jd_clean,omitempty"`
	JDSentences  []string `json:"jd_sentences"`
	JDWords      []string `json:"jd_words"`
	JDSkills     []string `json:"jd_skills"`
	JDExperience *string  `json:"jd_experience,omitempty"`

	// Matching
	TFIDFScore     Score    `json:"tfidf_score"`
	BOWScore       Score    `json:"bow_score"`
	EmbeddingScore Score    `json:"embedding_score"`
	MatchScore     Score    `json:"match_score"`
	MatchedSkills  []string `json:"matched_skills"`
	MissingSkills  []string `json:"missing_skills"`

	// Skill gap
	SkillResources map[string][]LearningResource `json:"skill_resources"`
	PrioritySkills []string                      `json:"priority_skills"`

	// Assessment
	MCQs          []MCQQuestion `json:"mcqs"`
	MCQScore      *Score        `json:"mcq_score,omitempty"` // percent
	BasedOnSkills []string      `json:"based_on_skills"`

	// Interview
	InterviewQuestions []InterviewQuestion `json:"interview_questions"`
	CandidateAnswers   []string            `json:"candidate_answers"`
	InterviewScore     *Score              `json:"interview_score,omitempty"`
	Feedback           *Feedback           `json:"feedback,omitempty"`

	// Final report
	FinalScore     *Score            `json:"final_score,omitempty"`
	ResumeFeedback *string           `json:"resume_feedback,omitempty"`
	SkillFeedback  *string           `json:"skill_feedback,omitempty"`
	StudyResources map[string]string `json:"study_resources"`
	NextSteps      []string          `json:"next_steps"`
}

// NewCandidateState returns an empty, normalized state.
func NewCandidateState() CandidateState {
	var s CandidateState
	s.Normalize()
	return s
}

// Normalize replaces nil sequences and mappings with empty ones so that
// "has this step completed" checks never depend on nil-vs-empty.
func (s *CandidateState) Normalize() {
	for _, p := range []*[]string{
		&s.ResumeSentences, &s.ResumeWords, &s.CandidateSkills, &s.Education,
		&s.JDSentences, &s.JDWords, &s.JDSkills,
		&s.MatchedSkills, &s.MissingSkills, &s.PrioritySkills,
		&s.BasedOnSkills, &s.CandidateAnswers, &s.NextSteps,
	} {
		if *p == nil {
			*p = []string{}
		}
	}
	if s.SkillResources == nil {
		s.SkillResources = map[string][]LearningResource{}
	}
	if s.MCQs == nil {
		s.MCQs = []MCQQuestion{}
	}
	if s.InterviewQuestions == nil {
		s.InterviewQuestions = []InterviewQuestion{}
	}
	if s.StudyResources == nil {
		s.StudyResources = map[string]string{}
	}
}

// Clone returns a deep copy of the state.
func (s CandidateState) Clone() CandidateState {
	data, err := json.Marshal(s)
	if err != nil {
		// Every field is JSON-encodable; Score guards NaN.
		panic("types: clone candidate state: " + err.Error())
	}
	var out CandidateState
	if err := json.Unmarshal(data, &out); err != nil {
		panic("types: clone candidate state: " + err.Error())
	}
	out.Normalize()
	return out
}

// StringValue dereferences an optional string.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
