package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Storage keys for the three independently persisted records.
const (
	SessionKey          = "talentai-session"
	RoleKey             = "userRole"
	InterviewResultsKey = "interview-results"
)

// SessionRecord is the persisted aggregate of one candidate evaluation run.
type SessionRecord struct {
	ThreadID     *string        `json:"threadId"`
	State        CandidateState `json:"state"`
	ProgressHint int            `json:"progressHint"`
}

// NewSessionRecord returns an empty record with no thread.
func NewSessionRecord() *SessionRecord {
	return &SessionRecord{State: NewCandidateState()}
}

// Thread returns the correlation id or "".
func (r *SessionRecord) Thread() string {
	if r == nil {
		return ""
	}
	return StringValue(r.ThreadID)
}

// ShortThread returns the first 8 characters of the thread id for display.
func (r *SessionRecord) ShortThread() string {
	id := r.Thread()
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Clone returns a deep copy.
func (r *SessionRecord) Clone() *SessionRecord {
	out := &SessionRecord{
		State:        r.State.Clone(),
		ProgressHint: r.ProgressHint,
	}
	if r.ThreadID != nil {
		out.ThreadID = StringPtr(*r.ThreadID)
	}
	return out
}

// UnmarshalJSON accepts the legacy "progress" key in place of "progressHint".
// Fractional hints are rounded.
func (r *SessionRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		ThreadID     *string         `json:"threadId"`
		State        *CandidateState `json:"state"`
		ProgressHint *float64        `json:"progressHint"`
		Progress     *float64        `json:"progress"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = SessionRecord{ThreadID: raw.ThreadID}
	if raw.ThreadID != nil && strings.TrimSpace(*raw.ThreadID) == "" {
		r.ThreadID = nil
	}
	if raw.State != nil {
		r.State = *raw.State
	}
	r.State.Normalize()
	switch {
	case raw.ProgressHint != nil:
		r.ProgressHint = int(math.Round(*raw.ProgressHint))
	case raw.Progress != nil:
		r.ProgressHint = int(math.Round(*raw.Progress))
	}
	return nil
}

// Role is a visitor role.
type Role string

// Supported roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("invalid role %q", s)
	}
}

// AuthRecord is the persisted authentication flag. Role is empty iff not authenticated.
type AuthRecord struct {
	Role Role `json:"role"`
}

// UnmarshalJSON accepts a bare role string as written by older clients.
func (a *AuthRecord) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		a.Role = Role(bare)
		return nil
	}
	var raw struct {
		Role Role `json:"role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Role = raw.Role
	return nil
}

// InterviewSnapshot is the part of the state shown on the results view.
type InterviewSnapshot struct {
	CandidateAnswers   []string            `json:"candidate_answers"`
	InterviewQuestions []InterviewQuestion `json:"interview_questions"`
}

// InterviewResults is the most recent interview evaluation, persisted under its own key.
type InterviewResults struct {
	InterviewScore *Score            `json:"interview_score,omitempty"`
	Feedback       *Feedback         `json:"feedback,omitempty"`
	State          InterviewSnapshot `json:"state"`
}

// AnsweredCount returns how many questions have a non-blank answer.
func (r *InterviewResults) AnsweredCount() int {
	n := 0
	for _, a := range r.State.CandidateAnswers {
		if strings.TrimSpace(a) != "" {
			n++
		}
	}
	return n
}
