package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonathan/talentfit/internal/interview"
	"github.com/jonathan/talentfit/internal/routes"
	"github.com/jonathan/talentfit/internal/types"
	"github.com/jonathan/talentfit/internal/workflow"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNoInterview = errors.New("no interview questions generated yet; run 'talentfit interview generate'")

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Interview questions, answers and evaluation",
}

var interviewGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate interview questions",
	Args:  cobra.NoArgs,
	RunE:  withApp(runInterviewGenerate),
}

var interviewShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the questions with the saved answers",
	Args:  cobra.NoArgs,
	RunE:  withApp(runInterviewShow),
}

var interviewAnswerCmd = &cobra.Command{
	Use:   "answer <question-number> <answer>",
	Short: "Save the answer to one question",
	Args:  cobra.MinimumNArgs(2),
	RunE:  withApp(runInterviewAnswer),
}

var interviewTranscribeCmd = &cobra.Command{
	Use:   "transcribe <question-number> <audio-file>",
	Short: "Transcribe a recorded answer and save it",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runInterviewTranscribe),
}

var interviewSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the answers for evaluation",
	Args:  cobra.NoArgs,
	RunE:  withApp(runInterviewSubmit),
}

func init() {
	interviewCmd.AddCommand(interviewGenerateCmd, interviewShowCmd, interviewAnswerCmd, interviewTranscribeCmd, interviewSubmitCmd)
	rootCmd.AddCommand(interviewCmd)
}

func runInterviewGenerate(ctx context.Context, a *App, _ []string) error {
	return a.generateInterview(ctx)
}

func runInterviewShow(ctx context.Context, a *App, _ []string) error {
	return a.showInterview(ctx)
}

func runInterviewAnswer(ctx context.Context, a *App, args []string) error {
	n, err := parseQuestionNumber(args[0])
	if err != nil {
		return err
	}
	return a.answerQuestion(ctx, n, strings.Join(args[1:], " "))
}

func runInterviewTranscribe(ctx context.Context, a *App, args []string) error {
	n, err := parseQuestionNumber(args[0])
	if err != nil {
		return err
	}
	return a.transcribeAnswer(ctx, n, args[1])
}

func runInterviewSubmit(ctx context.Context, a *App, _ []string) error {
	return a.submitInterview(ctx)
}

// parseQuestionNumber reads a one-based question number.
func parseQuestionNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid question number %q", s)
	}
	return n, nil
}

func (a *App) generateInterview(ctx context.Context) error {
	rec, err := a.runStep(ctx, workflow.StepInterview, a.service.GenerateInterview)
	if err != nil || rec == nil {
		return err
	}

	a.printer.PrintInterview(interview.SheetFor(rec.State))
	a.printer.Success("Generated %d questions", len(rec.State.InterviewQuestions))
	return nil
}

func (a *App) showInterview(ctx context.Context) error {
	_, rec, err := a.enterStep(ctx, workflow.StepInterview)
	if err != nil || rec == nil {
		return err
	}
	if !types.HasInterview.Satisfied(rec.State) {
		return errNoInterview
	}
	a.printer.PrintInterview(interview.SheetFor(rec.State))
	return nil
}

// answerQuestion saves the answer to the one-based question n.
func (a *App) answerQuestion(ctx context.Context, n int, text string) error {
	ctrl, rec, err := a.enterStep(ctx, workflow.StepInterview)
	if err != nil || rec == nil {
		return err
	}
	if err := a.saveAnswer(ctx, ctrl, n, text); err != nil {
		return err
	}
	a.printer.Success("Saved answer to question %d", n)
	return nil
}

func (a *App) saveAnswer(ctx context.Context, ctrl *workflow.Controller, n int, text string) error {
	_, err := ctrl.Update(ctx, func(rec *types.SessionRecord) error {
		sheet := interview.SheetFor(rec.State)
		if err := sheet.SetAnswer(n-1, text); err != nil {
			return err
		}
		sheet.Apply(&rec.State)
		return nil
	})
	return err
}

func (a *App) transcribeAnswer(ctx context.Context, n int, path string) error {
	ctrl, rec, err := a.enterStep(ctx, workflow.StepInterview)
	if err != nil || rec == nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open recording: %w", err)
	}
	defer f.Close()

	text, err := interview.Transcribe(ctx, a.service, rec.Thread(), interview.SheetFor(rec.State), n-1, filepath.Base(path), f)
	if err != nil {
		return err
	}
	if err := a.saveAnswer(ctx, ctrl, n, text); err != nil {
		return err
	}

	a.printer.Success("Transcribed answer to question %d", n)
	a.printer.Info("%s", text)
	return nil
}

// submitInterview evaluates the answers, stores the results and shows the review.
func (a *App) submitInterview(ctx context.Context) error {
	ctrl, rec, err := a.enterStep(ctx, workflow.StepInterview)
	if err != nil || rec == nil {
		return err
	}
	defer ctrl.Leave()

	if !types.HasInterview.Satisfied(rec.State) {
		return errNoInterview
	}
	sheet := interview.SheetFor(rec.State)
	if missing := sheet.Unanswered(); len(missing) > 0 {
		a.printer.Info("%d of %d questions have no answer", len(missing), sheet.Len())
	}

	a.printer.Info("Evaluating interview...")
	rec, err = ctrl.Run(ctx, interview.SubmitAction(sheet, a.service.EvaluateInterview))
	if err != nil {
		return err
	}

	res, err := interview.SaveResults(ctx, a.results, rec.State)
	if err != nil {
		return err
	}
	a.logger.Info("interview evaluated",
		zap.String("thread_id", rec.Thread()),
		zap.Int("answered", res.AnsweredCount()))

	a.printer.PrintReview(interview.BuildReview(res))
	a.nav.Navigate(routes.InterviewDone)
	return nil
}
