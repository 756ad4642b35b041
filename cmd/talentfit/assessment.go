package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/talentfit/internal/assessment"
	"github.com/jonathan/talentfit/internal/routes"
	"github.com/jonathan/talentfit/internal/types"
	"github.com/jonathan/talentfit/internal/workflow"
	"github.com/spf13/cobra"
)

var errNoAssessment = errors.New("no assessment generated yet; run 'talentfit assessment generate'")

var assessmentCmd = &cobra.Command{
	Use:   "assessment",
	Short: "Multiple-choice assessment on the matched skills",
}

var assessmentGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate assessment questions",
	Args:  cobra.NoArgs,
	RunE:  withApp(runAssessmentGenerate),
}

var assessmentShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the generated questions",
	Args:  cobra.NoArgs,
	RunE:  withApp(runAssessmentShow),
}

var assessmentScoreCmd = &cobra.Command{
	Use:   "score <answers>",
	Short: "Score answers given as a comma separated list, e.g. A,C,B",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runAssessmentScore),
}

var assessmentExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the assessment with answers as plain text",
	Args:  cobra.NoArgs,
	RunE:  withApp(runAssessmentExport),
}

var (
	showAnswers bool
	exportOut   string
)

func init() {
	assessmentShowCmd.Flags().BoolVar(&showAnswers, "answers", false, "Include correct answers and explanations")
	assessmentExportCmd.Flags().StringVarP(&exportOut, "out", "o", assessment.ExportFilename, "Output file, or - for stdout")

	assessmentCmd.AddCommand(assessmentGenerateCmd, assessmentShowCmd, assessmentScoreCmd, assessmentExportCmd)
	rootCmd.AddCommand(assessmentCmd)
}

func runAssessmentGenerate(ctx context.Context, a *App, _ []string) error {
	return a.generateAssessment(ctx)
}

func runAssessmentShow(ctx context.Context, a *App, _ []string) error {
	return a.showAssessment(ctx, showAnswers)
}

func runAssessmentScore(ctx context.Context, a *App, args []string) error {
	return a.scoreAssessment(ctx, assessment.ParseSelections(args[0]))
}

func runAssessmentExport(ctx context.Context, a *App, _ []string) error {
	return a.exportAssessment(ctx, exportOut)
}

func (a *App) generateAssessment(ctx context.Context) error {
	rec, err := a.runStep(ctx, workflow.StepAssessment, a.service.GenerateAssessment)
	if err != nil || rec == nil {
		return err
	}

	a.printer.PrintAssessment(rec.State, false)
	a.printer.Success("Generated %d questions", len(rec.State.MCQs))
	a.nav.Navigate(routes.Interview)
	return nil
}

func (a *App) showAssessment(ctx context.Context, reveal bool) error {
	_, rec, err := a.enterStep(ctx, workflow.StepAssessment)
	if err != nil || rec == nil {
		return err
	}
	if !types.HasAssessment.Satisfied(rec.State) {
		return errNoAssessment
	}
	a.printer.PrintAssessment(rec.State, reveal)
	return nil
}

// scoreAssessment grades selections locally and stores the percentage as the MCQ score.
func (a *App) scoreAssessment(ctx context.Context, selections []string) error {
	ctrl, rec, err := a.enterStep(ctx, workflow.StepAssessment)
	if err != nil || rec == nil {
		return err
	}

	var result assessment.Result
	rec, err = ctrl.Update(ctx, func(rec *types.SessionRecord) error {
		if !types.HasAssessment.Satisfied(rec.State) {
			return errNoAssessment
		}
		result = assessment.Grade(rec.State.MCQs, selections)
		rec.State.MCQScore = result.Score()
		return nil
	})
	if err != nil {
		return err
	}

	a.printer.PrintAssessmentResult(rec.State.MCQs, result)
	return nil
}

func (a *App) exportAssessment(ctx context.Context, out string) error {
	_, rec, err := a.enterStep(ctx, workflow.StepAssessment)
	if err != nil || rec == nil {
		return err
	}
	if !types.HasAssessment.Satisfied(rec.State) {
		return errNoAssessment
	}

	if out == "-" {
		return assessment.Export(a.printer.Writer(), rec.State.MCQs)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := assessment.Export(f, rec.State.MCQs); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	a.printer.Success("Assessment exported to %s", out)
	return nil
}
