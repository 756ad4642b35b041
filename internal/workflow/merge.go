package workflow

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/talentfit/internal/remote"
	"github.com/jonathan/talentfit/internal/types"
)

// Merge overlays a step response onto a copy of rec.
//
// Top-level summary keys are applied first and the response state second, so a
// non-empty state value wins when both carry a field. A key whose incoming value is
// empty, including a numeric zero, never clears a non-empty stored value. The thread id is taken from the response when
// present and kept otherwise. Merging the same response twice yields the same record.
func Merge(rec *types.SessionRecord, resp *remote.StepResponse) (*types.SessionRecord, error) {
	var out *types.SessionRecord
	if rec == nil {
		out = types.NewSessionRecord()
	} else {
		out = rec.Clone()
	}
	if resp == nil {
		return out, nil
	}

	current, err := fields(out.State)
	if err != nil {
		return nil, err
	}

	overlay(current, resp.Summary)

	if len(resp.State) > 0 {
		var incoming map[string]json.RawMessage
		if err := json.Unmarshal(resp.State, &incoming); err != nil {
			return nil, fmt.Errorf("failed to decode response state: %w", err)
		}
		overlay(current, incoming)
	}

	data, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged state: %w", err)
	}
	var state types.CandidateState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode merged state: %w", err)
	}
	state.Normalize()
	out.State = state

	if id := strings.TrimSpace(resp.ThreadID); id != "" {
		out.ThreadID = types.StringPtr(id)
	}
	return out, nil
}

func fields(state types.CandidateState) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stored state: %w", err)
	}
	out := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode stored state: %w", err)
	}
	return out, nil
}

func overlay(dst, src map[string]json.RawMessage) {
	for k, v := range src {
		if empty(v) && !empty(dst[k]) {
			continue
		}
		dst[k] = v
	}
}

// empty reports whether v is absent, null, zero, a blank string, or an empty list or object.
// Scores default to 0 on the service side, so zero carries no information.
func empty(v json.RawMessage) bool {
	s := strings.TrimSpace(string(v))
	switch s {
	case "", "null", "[]", "{}":
		return true
	}
	if c := s[0]; c == '-' || (c >= '0' && c <= '9') {
		var n float64
		if err := json.Unmarshal(v, &n); err == nil {
			return n == 0
		}
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(v, &str); err == nil {
			return strings.TrimSpace(str) == ""
		}
	}
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var anyv any
		if err := json.Unmarshal(v, &anyv); err == nil {
			switch t := anyv.(type) {
			case []any:
				return len(t) == 0
			case map[string]any:
				return len(t) == 0
			}
		}
	}
	return false
}
