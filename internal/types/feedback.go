package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// QuestionFeedback is the evaluator's review of one interview answer.
// QuestionIndex is 1-based.
type QuestionFeedback struct {
	QuestionIndex int    `json:"question_index"`
	Review        string `json:"review_feedback"`
}

// Feedback is the interview evaluation feedback. The service reports it either as
// free text or as a per-question list; a string that itself holds a JSON list is
// decoded as the list.
type Feedback struct {
	Text  string
	Items []QuestionFeedback
}

// TextFeedback builds free-text feedback.
func TextFeedback(text string) *Feedback {
	return &Feedback{Text: text}
}

// Empty reports whether the feedback carries no content.
func (f *Feedback) Empty() bool {
	return f == nil || (strings.TrimSpace(f.Text) == "" && len(f.Items) == 0)
}

// ForQuestion returns the review for the zero-based question index i.
func (f *Feedback) ForQuestion(i int) (string, bool) {
	if f == nil {
		return "", false
	}
	for _, item := range f.Items {
		if item.QuestionIndex == i+1 {
			return item.Review, true
		}
	}
	return "", false
}

// MarshalJSON writes the list form when present, otherwise the text.
func (f Feedback) MarshalJSON() ([]byte, error) {
	if len(f.Items) > 0 {
		return json.Marshal(f.Items)
	}
	return json.Marshal(f.Text)
}

// UnmarshalJSON accepts a string, a JSON-encoded list inside a string, or a list.
func (f *Feedback) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = Feedback{}

	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &f.Items)
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}

	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "[") {
		var items []QuestionFeedback
		if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
			f.Items = items
			return nil
		}
	}

	f.Text = text
	return nil
}
