package main

import (
	"context"

	"github.com/jonathan/talentfit/internal/progress"
	"github.com/jonathan/talentfit/internal/routes"
	"github.com/jonathan/talentfit/internal/workflow"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score the resume against the job description",
	Args:  cobra.NoArgs,
	RunE:  withApp(runMatch),
}

var skillGapCmd = &cobra.Command{
	Use:   "skill-gap",
	Short: "Find missing skills and learning resources",
	Args:  cobra.NoArgs,
	RunE:  withApp(runSkillGap),
}

func init() {
	rootCmd.AddCommand(matchCmd, skillGapCmd)
}

func runMatch(ctx context.Context, a *App, _ []string) error {
	return a.match(ctx)
}

func runSkillGap(ctx context.Context, a *App, _ []string) error {
	return a.skillGap(ctx)
}

func (a *App) match(ctx context.Context) error {
	rec, err := a.runStep(ctx, workflow.StepMatching, a.service.Match)
	if err != nil || rec == nil {
		return err
	}

	a.printer.PrintMatch(rec.State)
	a.printer.Success("Match score: %d%%", progress.Percent(rec.State.MatchScore))
	a.nav.Navigate(routes.SkillGap)
	return nil
}

func (a *App) skillGap(ctx context.Context) error {
	rec, err := a.runStep(ctx, workflow.StepSkillGap, a.service.AnalyzeSkillGap)
	if err != nil || rec == nil {
		return err
	}

	a.printer.PrintSkillGap(rec.State)
	a.nav.Navigate(routes.Assessment)
	return nil
}
