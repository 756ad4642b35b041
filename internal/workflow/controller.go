package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonathan/talentfit/internal/logging"
	"github.com/jonathan/talentfit/internal/remote"
	"github.com/jonathan/talentfit/internal/routes"
	"github.com/jonathan/talentfit/internal/session"
	"github.com/jonathan/talentfit/internal/types"
	"go.uber.org/zap"
)

// Phase is the controller's action state.
type Phase int32

const (
	Idle Phase = iota
	Loading
)

func (p Phase) String() string {
	if p == Loading {
		return "loading"
	}
	return "idle"
}

var (
	// ErrInFlight is returned when an action is started while another is still running.
	ErrInFlight = errors.New("workflow: an action is already in flight")
	// ErrDetached is returned when a response arrives after the step was left.
	ErrDetached = errors.New("workflow: step was left before the response arrived")
)

// StepError is a failed remote action. The stored record is unchanged and the action can be re-run.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Remote returns the underlying service error, if any.
func (e *StepError) Remote() (*remote.Error, bool) {
	var rerr *remote.Error
	if errors.As(e.Err, &rerr) {
		return rerr, true
	}
	return nil, false
}

// Action performs one remote call for a step.
type Action func(ctx context.Context, req remote.StepRequest) (*remote.StepResponse, error)

// Outcome is the result of the most recent action.
type Outcome struct {
	Step     Step
	Err      error
	ThreadID string
	Duration time.Duration
	At       time.Time
}

// Succeeded reports whether the action completed and was saved.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// ResultsChecker reports whether interview results are stored.
type ResultsChecker interface {
	Exists(ctx context.Context) bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithTimeout bounds every action. Zero leaves the caller's context alone.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logging.OrNop(l)
	}
}

// WithResults sets the interview results lookup used by steps that require it.
func WithResults(r ResultsChecker) Option {
	return func(c *Controller) {
		c.results = r
	}
}

// Controller drives one workflow step against the session store.
type Controller struct {
	def     StepDefinition
	store   session.Store
	nav     routes.Navigator
	results ResultsChecker
	logger  *zap.Logger
	timeout time.Duration

	phase    atomic.Int32
	detached atomic.Bool

	mu   sync.Mutex
	last *Outcome
}

// NewController creates a controller for step.
func NewController(step Step, store session.Store, nav routes.Navigator, opts ...Option) (*Controller, error) {
	def, err := Lookup(step)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("workflow: session store is required")
	}
	c := &Controller{
		def:    def,
		store:  store,
		nav:    nav,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("step", string(def.Name)))
	return c, nil
}

// Definition returns the step this controller drives.
func (c *Controller) Definition() StepDefinition {
	return c.def
}

// Phase returns the current action phase.
func (c *Controller) Phase() Phase {
	return Phase(c.phase.Load())
}

// Last returns the most recent action outcome, or nil before the first action.
func (c *Controller) Last() *Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return nil
	}
	out := *c.last
	return &out
}

// Enter loads the record for the step and checks its prerequisites.
// When a prerequisite is unmet it navigates to the owning step and returns the notice.
// The resume step starts from an empty record when none is stored.
func (c *Controller) Enter(ctx context.Context) (*types.SessionRecord, *Notice) {
	c.detached.Store(false)
	rec := c.store.Load(ctx)

	var notice *Notice
	switch {
	case c.def.RequiresResults:
		if c.results == nil || !c.results.Exists(ctx) {
			notice = resultsNotice(c.def.Name)
		}
	case rec == nil:
		if c.def.Fresh {
			return types.NewSessionRecord(), nil
		}
		notice = sessionNotice(c.def.Name)
	default:
		notice = CheckPrerequisites(c.def.Name, rec.State)
	}

	if notice == nil {
		if rec == nil {
			rec = types.NewSessionRecord()
		}
		return rec, nil
	}

	c.logger.Info("prerequisite not met",
		zap.String("missing", notice.Missing),
		zap.String("redirect", notice.Route))
	if c.nav != nil {
		c.nav.Navigate(notice.Route)
	}
	return rec, notice
}

// Leave detaches the step. A response that completes afterwards is dropped.
func (c *Controller) Leave() {
	c.detached.Store(true)
}

// Run performs action with the stored state and thread id, merges the response
// and saves the record once. On failure the stored record is left untouched.
func (c *Controller) Run(ctx context.Context, action Action) (*types.SessionRecord, error) {
	if !c.phase.CompareAndSwap(int32(Idle), int32(Loading)) {
		return nil, ErrInFlight
	}
	defer c.phase.Store(int32(Idle))

	start := time.Now()
	rec, err := c.run(ctx, action)
	c.record(Outcome{
		Step:     c.def.Name,
		Err:      err,
		ThreadID: rec.Thread(),
		Duration: time.Since(start),
		At:       start,
	})
	return rec, err
}

func (c *Controller) run(ctx context.Context, action Action) (*types.SessionRecord, error) {
	base, err := c.base(ctx)
	if err != nil {
		return nil, err
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Debug("running step", zap.String("thread_id", base.Thread()))
	resp, err := action(callCtx, remote.StepRequest{State: base.State, ThreadID: base.Thread()})

	if c.detached.Load() {
		c.logger.Info("dropping response for a step that was left", zap.Bool("failed", err != nil))
		return nil, ErrDetached
	}
	if err != nil {
		c.logger.Warn("step failed", zap.Error(err))
		return nil, &StepError{Step: c.def.Name, Err: err}
	}
	if resp == nil {
		return nil, &StepError{Step: c.def.Name, Err: fmt.Errorf("empty response")}
	}
	if resp.ThreadIDConflict {
		c.logger.Warn("response carried conflicting thread ids", zap.String("thread_id", resp.ThreadID))
	}

	merged, err := Merge(base, resp)
	if err != nil {
		return nil, &StepError{Step: c.def.Name, Err: err}
	}
	if err := c.store.Save(ctx, merged); err != nil {
		return nil, &StepError{Step: c.def.Name, Err: fmt.Errorf("failed to save session: %w", err)}
	}
	c.logger.Info("step completed",
		zap.String("thread_id", merged.Thread()),
		zap.Int("progress", merged.ProgressHint))
	return merged, nil
}

// base returns the record the action builds on.
func (c *Controller) base(ctx context.Context) (*types.SessionRecord, error) {
	if c.def.Fresh {
		return types.NewSessionRecord(), nil
	}
	rec := c.store.Load(ctx)
	if rec == nil {
		return nil, &PrerequisiteError{Step: c.def.Name, Missing: []string{MissingSession}}
	}
	if err := ValidatePrerequisites(c.def.Name, rec.State); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update applies a local change owned by the step and saves the full record.
func (c *Controller) Update(ctx context.Context, fn func(rec *types.SessionRecord) error) (*types.SessionRecord, error) {
	if c.Phase() != Idle {
		return nil, ErrInFlight
	}
	rec := c.store.Load(ctx)
	if rec == nil {
		return nil, &PrerequisiteError{Step: c.def.Name, Missing: []string{MissingSession}}
	}
	if err := fn(rec); err != nil {
		return nil, err
	}
	rec.State.Normalize()
	if err := c.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return rec, nil
}

func (c *Controller) record(o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = &o
}
