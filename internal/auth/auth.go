// Package auth tracks whether the visitor is logged in and with which role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonathan/talentfit/internal/logging"
	"github.com/jonathan/talentfit/internal/routes"
	"github.com/jonathan/talentfit/internal/types"
	"go.uber.org/zap"
)

// Status is the authentication status.
type Status int

// Authentication statuses. Unknown holds until the stored role has been read.
const (
	Unknown Status = iota
	LoggedOut
	LoggedIn
)

func (s Status) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case LoggedOut:
		return "logged_out"
	case LoggedIn:
		return "logged_in"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is an immutable snapshot of the auth context. Role is set iff Status is LoggedIn.
type State struct {
	Status Status
	Role   types.Role
}

// Allowed reports whether the state is logged in with one of required.
// A nil set places no role requirement; a non-nil empty set admits no role.
func (s State) Allowed(required []types.Role) bool {
	if s.Status != LoggedIn {
		return false
	}
	if required == nil {
		return true
	}
	for _, r := range required {
		if r == s.Role {
			return true
		}
	}
	return false
}

// Errors returned for state-machine misuse.
var (
	ErrNotReady             = errors.New("auth: state not yet rehydrated")
	ErrAlreadyAuthenticated = errors.New("auth: already logged in")
	ErrNotAuthenticated     = errors.New("auth: not logged in")
	ErrInvalidRole          = errors.New("auth: invalid role")
	ErrInvalidCredentials   = errors.New("auth: invalid username or password")
)

// RoleStore persists the role.
type RoleStore interface {
	Load(ctx context.Context) types.Role
	Save(ctx context.Context, role types.Role) error
	Clear(ctx context.Context) error
}

// CredentialChecker verifies a username and password and returns the account role.
type CredentialChecker interface {
	Check(username, password string) (types.Role, bool)
}

// Context owns the auth state and the persisted role.
type Context struct {
	mu          sync.Mutex
	state       State
	store       RoleStore
	credentials CredentialChecker
	nav         routes.Navigator
	logger      *zap.Logger
}

// NewContext creates a context in the Unknown state.
func NewContext(store RoleStore, credentials CredentialChecker, nav routes.Navigator, logger *zap.Logger) *Context {
	return &Context{
		state:       State{Status: Unknown},
		store:       store,
		credentials: credentials,
		nav:         nav,
		logger:      logging.OrNop(logger),
	}
}

// State returns the current snapshot.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Rehydrate reads the stored role once. Later calls return the current state unchanged.
func (c *Context) Rehydrate(ctx context.Context) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Status != Unknown {
		return c.state
	}

	role := c.store.Load(ctx)
	if role == "" {
		c.state = State{Status: LoggedOut}
	} else {
		c.state = State{Status: LoggedIn, Role: role}
	}
	c.logger.Debug("auth rehydrated", zap.Stringer("status", c.state.Status), zap.String("role", string(role)))
	return c.state
}

// Login moves LoggedOut to LoggedIn(role), persists the role and navigates to the role's landing route.
func (c *Context) Login(ctx context.Context, role types.Role) error {
	if role != types.RoleUser && role != types.RoleAdmin {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	c.mu.Lock()
	switch c.state.Status {
	case Unknown:
		c.mu.Unlock()
		return ErrNotReady
	case LoggedIn:
		c.mu.Unlock()
		return ErrAlreadyAuthenticated
	}

	if err := c.store.Save(ctx, role); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to persist role: %w", err)
	}
	c.state = State{Status: LoggedIn, Role: role}
	c.mu.Unlock()

	c.logger.Info("logged in", zap.String("role", string(role)))
	c.navigate(routes.LandingFor(role))
	return nil
}

// Authenticate validates req, checks the credentials and logs in with the account's role.
// When req.Role is set it must match the account's role.
func (c *Context) Authenticate(ctx context.Context, req types.LoginRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid login request: %w", err)
	}
	if c.credentials == nil {
		return ErrInvalidCredentials
	}

	role, ok := c.credentials.Check(req.Username, req.Password)
	if !ok {
		c.logger.Warn("login rejected", zap.String("username", req.Username))
		return ErrInvalidCredentials
	}
	if req.Role != "" && types.Role(req.Role) != role {
		c.logger.Warn("login rejected: role mismatch", zap.String("username", req.Username), zap.String("requested", req.Role))
		return ErrInvalidCredentials
	}
	return c.Login(ctx, role)
}

// Logout moves LoggedIn to LoggedOut, clears the stored role and navigates to the login route.
func (c *Context) Logout(ctx context.Context) error {
	c.mu.Lock()
	switch c.state.Status {
	case Unknown:
		c.mu.Unlock()
		return ErrNotReady
	case LoggedOut:
		c.mu.Unlock()
		return ErrNotAuthenticated
	}

	if err := c.store.Clear(ctx); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to clear role: %w", err)
	}
	prev := c.state.Role
	c.state = State{Status: LoggedOut}
	c.mu.Unlock()

	c.logger.Info("logged out", zap.String("role", string(prev)))
	c.navigate(routes.Login)
	return nil
}

func (c *Context) navigate(path string) {
	if c.nav != nil {
		c.nav.Navigate(path)
	}
}
