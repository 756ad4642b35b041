package main

import (
	"context"

	"github.com/jonathan/talentfit/internal/interview"
	"github.com/jonathan/talentfit/internal/workflow"
	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show the evaluated interview with per-question feedback",
	Args:  cobra.NoArgs,
	RunE:  withApp(runResults),
}

func init() {
	rootCmd.AddCommand(resultsCmd)
}

func runResults(ctx context.Context, a *App, _ []string) error {
	return a.showResults(ctx)
}

func (a *App) showResults(ctx context.Context) error {
	_, rec, err := a.enterStep(ctx, workflow.StepResults)
	if err != nil || rec == nil {
		return err
	}
	a.printer.PrintReview(interview.BuildReview(a.results.Load(ctx)))
	return nil
}
