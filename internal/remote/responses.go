package remote

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/talentfit/internal/types"
)

// StepRequest is the body of every state-carrying step call.
type StepRequest struct {
	State    types.CandidateState `json:"state"`
	ThreadID string               `json:"thread_id"`
}

// StepResponse is a decoded step response. State is kept raw so the caller can
// merge only the keys the service actually sent.
type StepResponse struct {
	ThreadID string
	// ThreadIDConflict is set when thread_id and threadId were both present and differed.
	ThreadIDConflict bool
	State            json.RawMessage
	// Summary holds every top-level key other than the thread id and state.
	Summary map[string]json.RawMessage
}

// UnmarshalJSON accepts thread_id or threadId and collects the remaining keys as the summary.
func (r *StepResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = StepResponse{Summary: map[string]json.RawMessage{}}

	snake := decodeString(raw["thread_id"])
	camel := decodeString(raw["threadId"])
	switch {
	case snake != "":
		r.ThreadID = snake
		r.ThreadIDConflict = camel != "" && camel != snake
	case camel != "":
		r.ThreadID = camel
	}

	if state, ok := raw["state"]; ok && !isNull(state) {
		r.State = state
	}

	for k, v := range raw {
		switch k {
		case "thread_id", "threadId", "state":
			continue
		}
		r.Summary[k] = v
	}
	return nil
}

// Strings returns a summary list, or nil when absent or not a list of strings.
func (r *StepResponse) Strings(key string) []string {
	var out []string
	if err := json.Unmarshal(r.Summary[key], &out); err != nil {
		return nil
	}
	return out
}

// Score returns a summary score and whether it was present.
func (r *StepResponse) Score(key string) (types.Score, bool) {
	v, ok := r.Summary[key]
	if !ok || isNull(v) {
		return 0, false
	}
	var s types.Score
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, false
	}
	return s, true
}

// Text returns a summary string, or "".
func (r *StepResponse) Text(key string) string {
	return decodeString(r.Summary[key])
}

// JobMatch decodes the bulk job match summary.
func (r *StepResponse) JobMatch() JobMatchSummary {
	var out JobMatchSummary
	data, err := json.Marshal(r.Summary)
	if err == nil {
		_ = json.Unmarshal(data, &out)
	}
	return out
}

// JobMatchSummary is the best catalog match for the candidate.
type JobMatchSummary struct {
	BestMatchTitle string      `json:"best_match_title"`
	MatchScore     types.Score `json:"match_score"`
	Company        string      `json:"company"`
	Date           string      `json:"date"`
	JDText         string      `json:"jd_text"`
}

// Transcription is the result of transcribing one recorded answer.
type Transcription struct {
	Text string `json:"text"`
}

func decodeString(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func isNull(v json.RawMessage) bool {
	return strings.TrimSpace(string(v)) == "null"
}
