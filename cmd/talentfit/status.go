package main

import (
	"context"
	"fmt"

	"github.com/jonathan/talentfit/internal/routes"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"dashboard"},
	Short:   "Show evaluation progress for the current session",
	Args:    cobra.NoArgs,
	RunE:    withApp(runStatus),
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the current session and interview results",
	Args:  cobra.NoArgs,
	RunE:  withApp(runReset),
}

func init() {
	rootCmd.AddCommand(statusCmd, resetCmd)
}

func runStatus(ctx context.Context, a *App, _ []string) error {
	return a.status(ctx)
}

func runReset(ctx context.Context, a *App, _ []string) error {
	return a.reset(ctx)
}

func (a *App) status(ctx context.Context) error {
	if err := a.enter(ctx, routes.Dashboard); err != nil {
		return err
	}
	a.printer.PrintDashboard(a.sessions.Load(ctx))
	return nil
}

func (a *App) reset(ctx context.Context) error {
	if err := a.enter(ctx, routes.Dashboard); err != nil {
		return err
	}
	if err := a.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if err := a.results.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear interview results: %w", err)
	}
	a.printer.Success("Session cleared")
	a.nav.Navigate(routes.UploadResume)
	return nil
}
