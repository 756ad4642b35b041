package main

import (
	"context"
	"fmt"

	"github.com/jonathan/talentfit/internal/ingestion"
	"github.com/jonathan/talentfit/internal/remote"
	"github.com/jonathan/talentfit/internal/routes"
	"github.com/jonathan/talentfit/internal/types"
	"github.com/jonathan/talentfit/internal/workflow"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var jdCmd = &cobra.Command{
	Use:   "jd",
	Short: "Submit the job description to match against",
	Long:  "Submit a job description from pasted text, a text file or a job posting URL. The text is cleaned before it is sent for skill extraction.",
	Args:  cobra.NoArgs,
	RunE:  withApp(runJobDescription),
}

var jobMatchCmd = &cobra.Command{
	Use:   "job-match",
	Short: "Find the best matching job description in the catalog",
	Args:  cobra.NoArgs,
	RunE:  withApp(runJobMatch),
}

var (
	jdText string
	jdFile string
	jdURL  string
)

func init() {
	jdCmd.Flags().StringVar(&jdText, "text", "", "Job description text")
	jdCmd.Flags().StringVarP(&jdFile, "file", "f", "", "Path to text file containing the job description")
	jdCmd.Flags().StringVarP(&jdURL, "url", "u", "", "URL of a job posting to import")

	rootCmd.AddCommand(jdCmd, jobMatchCmd)
}

func runJobDescription(ctx context.Context, a *App, _ []string) error {
	doc, err := a.ingestJobDescription(ctx, jdText, jdFile, jdURL)
	if err != nil {
		return err
	}
	return a.uploadJobDescription(ctx, doc)
}

func runJobMatch(ctx context.Context, a *App, _ []string) error {
	return a.jobMatch(ctx)
}

// ingestJobDescription reads exactly one of text, file or url into a cleaned document.
func (a *App) ingestJobDescription(ctx context.Context, text, file, url string) (*ingestion.Document, error) {
	set := 0
	for _, s := range []string{text, file, url} {
		if s != "" {
			set++
		}
	}
	if set == 0 {
		return nil, fmt.Errorf("one of --text, --file or --url must be provided")
	}
	if set > 1 {
		return nil, fmt.Errorf("--text, --file and --url are mutually exclusive; provide only one")
	}

	var (
		doc *ingestion.Document
		err error
	)
	switch {
	case text != "":
		doc, err = ingestion.FromText(text)
	case file != "":
		doc, err = ingestion.FromFile(file)
	default:
		doc, err = ingestion.FromURL(ctx, a.fetcher, url)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job description: %w", err)
	}

	a.logger.Debug("job description ingested",
		zap.String("source", string(doc.Source)),
		zap.String("platform", doc.Platform),
		zap.String("hash", doc.ShortHash()),
		zap.Int("length", len(doc.Text)))
	return doc, nil
}

func (a *App) uploadJobDescription(ctx context.Context, doc *ingestion.Document) error {
	rec, err := a.runStep(ctx, workflow.StepJobDescription, func(ctx context.Context, req remote.StepRequest) (*remote.StepResponse, error) {
		req.State.JDText = types.StringPtr(doc.Text)
		if doc.Source == ingestion.SourceFile {
			req.State.JDFilePath = types.StringPtr(doc.Origin)
		}
		return a.service.UploadJobDescription(ctx, req)
	})
	if err != nil || rec == nil {
		return err
	}

	a.printer.PrintJobDescription(rec.State)
	a.printer.Success("Job description processed: %d required skills", len(rec.State.JDSkills))
	a.nav.Navigate(routes.Matching)
	return nil
}

// jobMatch matches the resume against the admin catalog instead of a submitted description.
func (a *App) jobMatch(ctx context.Context) error {
	var summary remote.JobMatchSummary
	rec, err := a.runStep(ctx, workflow.StepJobDescription, func(ctx context.Context, req remote.StepRequest) (*remote.StepResponse, error) {
		resp, err := a.service.MatchJobs(ctx, req)
		if err == nil && resp != nil {
			summary = resp.JobMatch()
		}
		return resp, err
	})
	if err != nil || rec == nil {
		return err
	}

	a.printer.PrintJobMatch(summary)
	a.nav.Navigate(routes.Matching)
	return nil
}
