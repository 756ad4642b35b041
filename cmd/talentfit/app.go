package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jonathan/talentfit/internal/auth"
	"github.com/jonathan/talentfit/internal/config"
	"github.com/jonathan/talentfit/internal/fetch"
	"github.com/jonathan/talentfit/internal/guard"
	"github.com/jonathan/talentfit/internal/ingestion"
	"github.com/jonathan/talentfit/internal/logging"
	"github.com/jonathan/talentfit/internal/observability"
	"github.com/jonathan/talentfit/internal/remote"
	"github.com/jonathan/talentfit/internal/routes"
	"github.com/jonathan/talentfit/internal/session"
	"github.com/jonathan/talentfit/internal/storage"
	"github.com/jonathan/talentfit/internal/types"
	"github.com/jonathan/talentfit/internal/workflow"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errAccessDenied is returned when the route guard redirects a command.
var errAccessDenied = errors.New("access denied")

// nextCommands maps each route to the command that opens it.
var nextCommands = map[string]string{
	routes.Login:         "login --username <name> --password <password>",
	routes.Root:          "status",
	routes.Dashboard:     "status",
	routes.AdminJDs:      "admin jds list",
	routes.UploadResume:  "resume upload <file>",
	routes.UploadJD:      "jd --file <path> | --text <text> | --url <url>",
	routes.Matching:      "match",
	routes.SkillGap:      "skill-gap",
	routes.Assessment:    "assessment generate",
	routes.Interview:     "interview generate",
	routes.InterviewDone: "results",
}

// commandNavigator turns navigation into a hint naming the next command.
type commandNavigator struct {
	printer *observability.Printer
	routes.Recorder
}

func (n *commandNavigator) Navigate(path string) {
	n.Recorder.Navigate(path)
	if next, ok := nextCommands[path]; ok {
		n.printer.Info("Next: talentfit %s", next)
	}
}

// App holds the wired components for one command invocation.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	backend  storage.Backend
	sessions session.Store
	roles    *session.RoleStore
	results  *session.ResultsStore
	service  remote.Service
	fetcher  ingestion.PostingFetcher
	auth     *auth.Context
	printer  *observability.Printer
	nav      *commandNavigator
}

// deps are the externally built components an App is assembled from.
type deps struct {
	logger      *zap.Logger
	backend     storage.Backend
	service     remote.Service
	fetcher     ingestion.PostingFetcher
	credentials auth.CredentialChecker
	out         io.Writer
}

func assemble(cfg config.Config, d deps) *App {
	logger := logging.OrNop(d.logger)
	printer := observability.NewPrinter(d.out)
	nav := &commandNavigator{printer: printer}
	roles := session.NewRoleStore(d.backend, logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		backend:  d.backend,
		sessions: session.NewBlobStore(d.backend, logger),
		roles:    roles,
		results:  session.NewResultsStore(d.backend, logger),
		service:  d.service,
		fetcher:  d.fetcher,
		auth:     auth.NewContext(roles, d.credentials, nav, logger),
		printer:  printer,
		nav:      nav,
	}
}

// newApp builds the logger, storage backend and service clients described by cfg.
func newApp(ctx context.Context, cfg config.Config, out io.Writer) (*App, error) {
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON, File: cfg.LogFile})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	backend, err := storage.Open(ctx, storage.Options{
		Driver:      cfg.Storage,
		Dir:         cfg.StateDir,
		RedisURL:    cfg.RedisURL,
		Namespace:   cfg.Namespace,
		PostgresURL: cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage, err)
	}

	hashing, err := config.HashingFromEnv()
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	creds, err := config.NewCredentials(hashing, cfg.Users)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	fetchOpts := []fetch.Option{fetch.WithTimeout(cfg.TimeoutDuration()), fetch.WithLogger(logger)}
	if cfg.UseBrowser {
		fetchOpts = append(fetchOpts, fetch.WithRenderer(fetch.NewChromeRenderer(logger)))
	}

	logger.Debug("app configured",
		zap.String("api_url", cfg.APIBaseURL),
		zap.String("storage", cfg.Storage),
		zap.Duration("timeout", cfg.TimeoutDuration()))

	return assemble(cfg, deps{
		logger:      logger,
		backend:     backend,
		service:     remote.NewClient(cfg.APIBaseURL, remote.WithTimeout(cfg.TimeoutDuration()), remote.WithLogger(logger)),
		fetcher:     fetch.New(fetchOpts...),
		credentials: creds,
		out:         out,
	}), nil
}

// Close releases the storage backend and flushes logs.
func (a *App) Close() error {
	err := a.backend.Close()
	_ = a.logger.Sync()
	return err
}

// loadConfig merges the config file, the environment and explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	cfg.ApplyEnv()

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIBaseURL = apiURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeoutFlag
	}
	if flags.Changed("storage") {
		cfg.Storage = storageDriver
	}
	if flags.Changed("state-dir") {
		cfg.StateDir = stateDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if useBrowser {
		cfg.UseBrowser = true
	}
	if verbose {
		cfg.Verbose = true
		if !flags.Changed("log-level") {
			cfg.LogLevel = "debug"
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg.MergeWithDefaults(config.Config{}), nil
}

type appFunc func(ctx context.Context, a *App, args []string) error

// withApp wires an App for the duration of one command.
func withApp(fn appFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := newApp(ctx, cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, a, args)
	}
}

// enter applies the route guard to path after reading the stored role.
func (a *App) enter(ctx context.Context, path string) error {
	state := a.auth.Rehydrate(ctx)
	d := guard.Enter(state, path, a.nav)
	switch d.Outcome {
	case guard.Allow:
		return nil
	case guard.NotFound:
		return fmt.Errorf("unknown route %s", path)
	default:
		a.logger.Info("route guarded", zap.String("path", path), zap.Stringer("outcome", d.Outcome))
		return fmt.Errorf("%w: %s (%s)", errAccessDenied, path, d.Outcome)
	}
}

func (a *App) controller(step workflow.Step) (*workflow.Controller, error) {
	return workflow.NewController(step, a.sessions, a.nav,
		workflow.WithTimeout(a.cfg.TimeoutDuration()),
		workflow.WithLogger(a.logger),
		workflow.WithResults(a.results))
}

// enterStep guards the step's route and checks its prerequisites.
// A nil record with a nil error means a notice was printed and the command should stop.
func (a *App) enterStep(ctx context.Context, step workflow.Step) (*workflow.Controller, *types.SessionRecord, error) {
	ctrl, err := a.controller(step)
	if err != nil {
		return nil, nil, err
	}
	if err := a.enter(ctx, ctrl.Definition().Route); err != nil {
		return nil, nil, err
	}
	rec, notice := ctrl.Enter(ctx)
	if notice != nil {
		a.printer.Notice(notice)
		return ctrl, nil, nil
	}
	return ctrl, rec, nil
}

// runStep enters step and performs action against the stored record.
func (a *App) runStep(ctx context.Context, step workflow.Step, action workflow.Action) (*types.SessionRecord, error) {
	ctrl, rec, err := a.enterStep(ctx, step)
	if err != nil || rec == nil {
		return nil, err
	}
	defer ctrl.Leave()

	a.printer.Info("%s...", ctrl.Definition().Title)
	return ctrl.Run(ctx, action)
}
