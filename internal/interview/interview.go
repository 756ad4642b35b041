// Package interview manages interview answers and the evaluated results review.
package interview

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/talentfit/internal/remote"
	"github.com/jonathan/talentfit/internal/types"
)

// NoFeedback is shown for questions the evaluation did not review.
const NoFeedback = "No specific AI feedback generated for this question."

// AnswerSheet holds answers index-aligned with the interview questions.
type AnswerSheet struct {
	questions []types.InterviewQuestion
	answers   []string
}

// NewAnswerSheet aligns answers to questions, padding with blanks and dropping extras.
func NewAnswerSheet(questions []types.InterviewQuestion, answers []string) *AnswerSheet {
	aligned := make([]string, len(questions))
	copy(aligned, answers)
	return &AnswerSheet{questions: questions, answers: aligned}
}

// SheetFor builds the sheet stored in state.
func SheetFor(state types.CandidateState) *AnswerSheet {
	return NewAnswerSheet(state.InterviewQuestions, state.CandidateAnswers)
}

// Len returns the number of questions.
func (s *AnswerSheet) Len() int {
	return len(s.questions)
}

// Question returns the zero-based question i.
func (s *AnswerSheet) Question(i int) (types.InterviewQuestion, error) {
	if err := s.check(i); err != nil {
		return types.InterviewQuestion{}, err
	}
	return s.questions[i], nil
}

// Answer returns the answer to question i, or "".
func (s *AnswerSheet) Answer(i int) string {
	if i < 0 || i >= len(s.answers) {
		return ""
	}
	return s.answers[i]
}

// SetAnswer records the answer to the zero-based question i.
func (s *AnswerSheet) SetAnswer(i int, text string) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.answers[i] = text
	return nil
}

// Answers returns a copy of the aligned answers.
func (s *AnswerSheet) Answers() []string {
	out := make([]string, len(s.answers))
	copy(out, s.answers)
	return out
}

// Answered counts non-blank answers.
func (s *AnswerSheet) Answered() int {
	n := 0
	for _, a := range s.answers {
		if strings.TrimSpace(a) != "" {
			n++
		}
	}
	return n
}

// Unanswered returns the zero-based indexes of blank answers.
func (s *AnswerSheet) Unanswered() []int {
	out := []int{}
	for i, a := range s.answers {
		if strings.TrimSpace(a) == "" {
			out = append(out, i)
		}
	}
	return out
}

// Apply writes the answers into state.
func (s *AnswerSheet) Apply(state *types.CandidateState) {
	state.CandidateAnswers = s.Answers()
}

func (s *AnswerSheet) check(i int) error {
	if len(s.questions) == 0 {
		return fmt.Errorf("no interview questions generated")
	}
	if i < 0 || i >= len(s.questions) {
		return fmt.Errorf("question %d out of range (1-%d)", i+1, len(s.questions))
	}
	return nil
}

// Snapshot captures the evaluated interview for the results view.
func Snapshot(state types.CandidateState) *types.InterviewResults {
	sheet := SheetFor(state)
	return &types.InterviewResults{
		InterviewScore: state.InterviewScore,
		Feedback:       state.Feedback,
		State: types.InterviewSnapshot{
			CandidateAnswers:   sheet.Answers(),
			InterviewQuestions: state.InterviewQuestions,
		},
	}
}

// ReviewItem pairs one question with its answer and feedback.
type ReviewItem struct {
	Number   int
	Type     string
	Question string
	Answer   string
	Answered bool
	Feedback string
}

// Review is the results view of an evaluated interview.
type Review struct {
	Items    []ReviewItem
	Answered int
	Total    int
	Score    *types.Score
	Summary  string
}

// BuildReview pairs each question with its answer and its per-question feedback.
// Feedback items are matched by their one-based question index.
func BuildReview(res *types.InterviewResults) Review {
	if res == nil {
		return Review{Items: []ReviewItem{}}
	}
	questions := res.State.InterviewQuestions
	answers := NewAnswerSheet(questions, res.State.CandidateAnswers)

	review := Review{
		Items:    make([]ReviewItem, 0, len(questions)),
		Answered: answers.Answered(),
		Total:    len(questions),
		Score:    res.InterviewScore,
	}
	if res.Feedback != nil && len(res.Feedback.Items) == 0 {
		review.Summary = strings.TrimSpace(res.Feedback.Text)
	}

	for i, q := range questions {
		answer := answers.Answer(i)
		feedback, ok := res.Feedback.ForQuestion(i)
		if !ok || strings.TrimSpace(feedback) == "" {
			feedback = NoFeedback
		}
		review.Items = append(review.Items, ReviewItem{
			Number:   i + 1,
			Type:     q.Type,
			Question: q.Question,
			Answer:   answer,
			Answered: strings.TrimSpace(answer) != "",
			Feedback: feedback,
		})
	}
	return review
}

// Transcriber turns a recorded answer into text.
type Transcriber interface {
	Transcribe(ctx context.Context, threadID string, questionIndex int, filename string, r io.Reader) (*remote.Transcription, error)
}

// Transcribe transcribes a recording for the zero-based question i into the sheet.
func Transcribe(ctx context.Context, t Transcriber, threadID string, sheet *AnswerSheet, i int, filename string, r io.Reader) (string, error) {
	if strings.TrimSpace(threadID) == "" {
		return "", fmt.Errorf("session ID is missing for transcription")
	}
	if err := sheet.check(i); err != nil {
		return "", err
	}
	tr, err := t.Transcribe(ctx, threadID, i, filename, r)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	text := strings.TrimSpace(tr.Text)
	if err := sheet.SetAnswer(i, text); err != nil {
		return "", err
	}
	return text, nil
}

// ResultsWriter persists evaluated interview results.
type ResultsWriter interface {
	Save(ctx context.Context, res *types.InterviewResults) error
}

// SubmitAction wraps an evaluation call so the request carries the sheet's answers.
func SubmitAction(sheet *AnswerSheet, evaluate func(context.Context, remote.StepRequest) (*remote.StepResponse, error)) func(context.Context, remote.StepRequest) (*remote.StepResponse, error) {
	return func(ctx context.Context, req remote.StepRequest) (*remote.StepResponse, error) {
		sheet.Apply(&req.State)
		req.State.InterviewQuestions = sheet.questions
		return evaluate(ctx, req)
	}
}

// SaveResults snapshots the evaluated state and writes it to w.
func SaveResults(ctx context.Context, w ResultsWriter, state types.CandidateState) (*types.InterviewResults, error) {
	res := Snapshot(state)
	if err := w.Save(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to save interview results: %w", err)
	}
	return res, nil
}
