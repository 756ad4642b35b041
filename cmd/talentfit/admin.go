package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/jonathan/talentfit/internal/ingestion"
	"github.com/jonathan/talentfit/internal/routes"
	"github.com/jonathan/talentfit/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentDeletes bounds parallel delete requests.
const maxConcurrentDeletes = 4

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administration (admin role only)",
}

var adminJDsCmd = &cobra.Command{
	Use:   "jds",
	Short: "Manage the job description catalog",
}

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog job descriptions",
	Args:  cobra.NoArgs,
	RunE:  withApp(runAdminList),
}

var adminAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a job description to the catalog",
	Args:  cobra.NoArgs,
	RunE:  withApp(runAdminAdd),
}

var adminShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one catalog job description",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runAdminShow),
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more catalog job descriptions",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withApp(runAdminDelete),
}

var (
	adminTitle   string
	adminCompany string
	adminText    string
	adminFile    string
	adminDate    string
)

func init() {
	adminAddCmd.Flags().StringVar(&adminTitle, "title", "", "Job title (required)")
	adminAddCmd.Flags().StringVar(&adminCompany, "company", "", "Company name (required)")
	adminAddCmd.Flags().StringVar(&adminText, "text", "", "Job description text")
	adminAddCmd.Flags().StringVarP(&adminFile, "file", "f", "", "Path to text file containing the job description")
	adminAddCmd.Flags().StringVar(&adminDate, "date", "", "Posting date as YYYY-MM-DD (default today)")

	_ = adminAddCmd.MarkFlagRequired("title")
	_ = adminAddCmd.MarkFlagRequired("company")

	adminJDsCmd.AddCommand(adminListCmd, adminAddCmd, adminShowCmd, adminDeleteCmd)
	adminCmd.AddCommand(adminJDsCmd)
	rootCmd.AddCommand(adminCmd)
}

func runAdminList(ctx context.Context, a *App, _ []string) error {
	return a.listJobDescriptions(ctx)
}

func runAdminAdd(ctx context.Context, a *App, _ []string) error {
	payload, err := buildPayload(adminTitle, adminCompany, adminText, adminFile, adminDate)
	if err != nil {
		return err
	}
	return a.addJobDescription(ctx, payload)
}

func runAdminShow(ctx context.Context, a *App, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return a.showJobDescription(ctx, id)
}

func runAdminDelete(ctx context.Context, a *App, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	return a.deleteJobDescriptions(ctx, ids)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid job description id %q", s)
	}
	return id, nil
}

// buildPayload reads the description from text or file and validates the result.
func buildPayload(title, company, text, file, date string) (types.JobDescriptionPayload, error) {
	payload := types.JobDescriptionPayload{Title: title, Company: company, Date: time.Now().UTC().Truncate(24 * time.Hour)}

	if text != "" && file != "" {
		return payload, fmt.Errorf("--text and --file are mutually exclusive; provide only one")
	}
	var (
		doc *ingestion.Document
		err error
	)
	if file != "" {
		doc, err = ingestion.FromFile(file)
	} else {
		doc, err = ingestion.FromText(text)
	}
	if err != nil {
		return payload, fmt.Errorf("failed to read job description: %w", err)
	}
	payload.Text = doc.Text

	if date != "" {
		payload.Date, err = time.Parse("2006-01-02", date)
		if err != nil {
			return payload, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
		}
	}

	if err := payload.Validate(); err != nil {
		return payload, fmt.Errorf("invalid job description: %w", err)
	}
	return payload, nil
}

func (a *App) listJobDescriptions(ctx context.Context) error {
	if err := a.enter(ctx, routes.AdminJDs); err != nil {
		return err
	}
	jds, err := a.service.ListJobDescriptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list job descriptions: %w", err)
	}
	sort.Slice(jds, func(i, j int) bool { return jds[i].ID < jds[j].ID })
	a.printer.PrintJobDescriptions(jds)
	return nil
}

func (a *App) addJobDescription(ctx context.Context, payload types.JobDescriptionPayload) error {
	if err := a.enter(ctx, routes.AdminJDs); err != nil {
		return err
	}
	jd, err := a.service.CreateJobDescription(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to add job description: %w", err)
	}
	a.logger.Info("job description added", zap.Int64("id", jd.ID), zap.String("title", jd.Title))
	a.printer.Success("Added job description #%d: %s", jd.ID, jd.Title)
	return nil
}

func (a *App) showJobDescription(ctx context.Context, id int64) error {
	if err := a.enter(ctx, routes.AdminJDs); err != nil {
		return err
	}
	jds, err := a.service.ListJobDescriptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list job descriptions: %w", err)
	}
	for _, jd := range jds {
		if jd.ID == id {
			a.printer.PrintJobDescriptionDetail(jd)
			return nil
		}
	}
	return fmt.Errorf("job description #%d not found", id)
}

// deleteJobDescriptions deletes ids concurrently. Every id is attempted; failures are reported together.
func (a *App) deleteJobDescriptions(ctx context.Context, ids []int64) error {
	if err := a.enter(ctx, routes.AdminJDs); err != nil {
		return err
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(maxConcurrentDeletes)
	for _, id := range ids {
		g.Go(func() error {
			if err := a.service.DeleteJobDescription(ctx, id); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("#%d: %w", id, err))
				mu.Unlock()
				return nil
			}
			a.logger.Info("job description deleted", zap.Int64("id", id))
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		err := errors.Join(errs...)
		a.printer.Failure(fmt.Sprintf("Deleted %d of %d job descriptions", len(ids)-len(errs), len(ids)), err)
		return fmt.Errorf("failed to delete job descriptions: %w", err)
	}
	a.printer.Success("Deleted %d job descriptions", len(ids))
	return nil
}
