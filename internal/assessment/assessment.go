// Package assessment scores and exports generated multiple-choice assessments.
package assessment

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jonathan/talentfit/internal/types"
)

// ExportFilename is the default name of an exported assessment.
const ExportFilename = "candidate-assessment.txt"

// Result is a scored attempt.
type Result struct {
	Correct int
	Total   int
	Percent int
	// Wrong holds the zero-based indexes of questions answered incorrectly or not at all.
	Wrong []int
}

// Score returns the percent as the stored mcq_score.
func (r Result) Score() *types.Score {
	s := types.Score(r.Percent)
	return &s
}

// Letter returns the option label for a zero-based option index: A, B, C...
func Letter(i int) string {
	return string(rune('A' + i))
}

// Resolve turns a selection into option text. A single letter selects an option
// by position; anything else is taken as the option text itself.
func Resolve(q types.MCQQuestion, choice string) string {
	choice = strings.TrimSpace(choice)
	if len(choice) == 1 {
		idx := int(strings.ToUpper(choice)[0]) - 'A'
		if idx >= 0 && idx < len(q.Options) {
			return q.Options[idx]
		}
	}
	return choice
}

// Correct reports whether choice answers q. The expected answer may be given as
// option text or as an option letter.
func Correct(q types.MCQQuestion, choice string) bool {
	selected := Resolve(q, choice)
	if selected == "" {
		return false
	}
	expected := Resolve(q, q.Answer)
	return strings.EqualFold(strings.TrimSpace(selected), strings.TrimSpace(expected))
}

// Grade scores selections against the questions. selections is index-aligned with
// mcqs; missing selections count as wrong. The percentage is rounded.
func Grade(mcqs []types.MCQQuestion, selections []string) Result {
	res := Result{Total: len(mcqs), Wrong: []int{}}
	if res.Total == 0 {
		return res
	}
	for i, q := range mcqs {
		choice := ""
		if i < len(selections) {
			choice = selections[i]
		}
		if Correct(q, choice) {
			res.Correct++
		} else {
			res.Wrong = append(res.Wrong, i)
		}
	}
	res.Percent = int(math.Round(float64(res.Correct) / float64(res.Total) * 100))
	return res
}

// ParseSelections splits a comma separated answer list such as "A,c, B".
// Blank entries are kept so positions stay aligned with the questions.
func ParseSelections(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Export writes the assessment as plain text, one block per question.
func Export(w io.Writer, mcqs []types.MCQQuestion) error {
	for i, q := range mcqs {
		if _, err := fmt.Fprintf(w, "Question %d: %s\n", i+1, q.Question); err != nil {
			return err
		}
		for j, opt := range q.Options {
			if _, err := fmt.Fprintf(w, "%s) %s\n", Letter(j), opt); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "Correct Answer: %s\nExplanation: %s\n\n", q.Answer, q.Explanation); err != nil {
			return err
		}
	}
	return nil
}

// ExportString returns the text Export would write.
func ExportString(mcqs []types.MCQQuestion) string {
	var sb strings.Builder
	_ = Export(&sb, mcqs)
	return sb.String()
}
