package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/talentfit/internal/remote"
	"github.com/jonathan/talentfit/internal/routes"
	"github.com/jonathan/talentfit/internal/workflow"
	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume intake",
}

var resumeUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a resume and start a new session",
	Long:  "Upload a resume (PDF or DOCX) for skill extraction. Uploading starts a new session record.",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runResumeUpload),
}

func init() {
	resumeCmd.AddCommand(resumeUploadCmd)
	rootCmd.AddCommand(resumeCmd)
}

func runResumeUpload(ctx context.Context, a *App, args []string) error {
	return a.uploadResume(ctx, args[0])
}

func (a *App) uploadResume(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open resume: %w", err)
	}
	defer f.Close()

	rec, err := a.runStep(ctx, workflow.StepResume, func(ctx context.Context, _ remote.StepRequest) (*remote.StepResponse, error) {
		return a.service.UploadResume(ctx, filepath.Base(path), f)
	})
	if err != nil || rec == nil {
		return err
	}

	a.printer.PrintResume(rec.State)
	a.printer.Success("Resume processed: %d skills identified", len(rec.State.CandidateSkills))
	a.nav.Navigate(routes.UploadJD)
	return nil
}
