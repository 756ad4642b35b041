package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/talentfit/internal/auth"
	"github.com/jonathan/talentfit/internal/types"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in as a configured user",
	Long:  "Check the username and password against the configured users and remember the account's role for later commands.",
	Args:  cobra.NoArgs,
	RunE:  withApp(runLogin),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the logged-in role",
	Args:  cobra.NoArgs,
	RunE:  withApp(runLogout),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current login status",
	Args:  cobra.NoArgs,
	RunE:  withApp(runWhoami),
}

var (
	loginUsername string
	loginPassword string
	loginRole     string
)

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (required)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (required)")
	loginCmd.Flags().StringVar(&loginRole, "role", "", "Expected role: user or admin (optional)")

	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func runLogin(ctx context.Context, a *App, _ []string) error {
	return a.login(ctx, types.LoginRequest{Username: loginUsername, Password: loginPassword, Role: loginRole})
}

func runLogout(ctx context.Context, a *App, _ []string) error {
	return a.logout(ctx)
}

func runWhoami(ctx context.Context, a *App, _ []string) error {
	a.whoami(ctx)
	return nil
}

func (a *App) login(ctx context.Context, req types.LoginRequest) error {
	a.auth.Rehydrate(ctx)
	if err := a.auth.Authenticate(ctx, req); err != nil {
		if errors.Is(err, auth.ErrAlreadyAuthenticated) {
			return fmt.Errorf("already logged in as %s; run 'talentfit logout' first", a.auth.State().Role)
		}
		return err
	}
	a.printer.Success("Logged in as %s (%s)", req.Username, a.auth.State().Role)
	return nil
}

func (a *App) logout(ctx context.Context) error {
	a.auth.Rehydrate(ctx)
	if err := a.auth.Logout(ctx); err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			a.printer.Info("Not logged in.")
			return nil
		}
		return err
	}
	a.printer.Success("Logged out")
	return nil
}

func (a *App) whoami(ctx context.Context) {
	state := a.auth.Rehydrate(ctx)
	if state.Status != auth.LoggedIn {
		a.printer.Info("Not logged in.")
		return
	}
	a.printer.Success("Logged in as %s", state.Role)
}
