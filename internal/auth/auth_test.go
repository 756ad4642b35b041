package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/talentfit/internal/routes"
	"github.com/jonathan/talentfit/internal/session"
	"github.com/jonathan/talentfit/internal/storage"
	"github.com/jonathan/talentfit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCredentials map[string]struct {
	password string
	role     types.Role
}

func (s stubCredentials) Check(username, password string) (types.Role, bool) {
	acct, ok := s[username]
	if !ok || acct.password != password {
		return "", false
	}
	return acct.role, true
}

var demo = stubCredentials{
	"user":  {password: "userpass", role: types.RoleUser},
	"admin": {password: "adminpass", role: types.RoleAdmin},
}

type failingRoleStore struct{ err error }

func (f failingRoleStore) Load(context.Context) types.Role       { return "" }
func (f failingRoleStore) Save(context.Context, types.Role) error { return f.err }
func (f failingRoleStore) Clear(context.Context) error            { return f.err }

func newTestContext(t *testing.T) (*Context, *session.RoleStore, *routes.Recorder) {
	t.Helper()
	store := session.NewRoleStore(storage.NewMemoryBackend(), nil)
	nav := &routes.Recorder{}
	return NewContext(store, demo, nav, nil), store, nav
}

func TestRehydrate_NoStoredRole(t *testing.T) {
	ac, _, _ := newTestContext(t)
	assert.Equal(t, Unknown, ac.State().Status)

	st := ac.Rehydrate(context.Background())
	assert.Equal(t, State{Status: LoggedOut}, st)
}

func TestRehydrate_StoredRole(t *testing.T) {
	ctx := context.Background()
	ac, store, _ := newTestContext(t)
	require.NoError(t, store.Save(ctx, types.RoleAdmin))

	st := ac.Rehydrate(ctx)
	assert.Equal(t, State{Status: LoggedIn, Role: types.RoleAdmin}, st)
}

func TestRehydrate_RunsOnce(t *testing.T) {
	ctx := context.Background()
	ac, store, _ := newTestContext(t)

	assert.Equal(t, LoggedOut, ac.Rehydrate(ctx).Status)
	require.NoError(t, store.Save(ctx, types.RoleUser))
	assert.Equal(t, LoggedOut, ac.Rehydrate(ctx).Status)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	ac, store, nav := newTestContext(t)

	assert.ErrorIs(t, ac.Login(ctx, types.RoleUser), ErrNotReady)

	ac.Rehydrate(ctx)
	assert.ErrorIs(t, ac.Login(ctx, "superuser"), ErrInvalidRole)
	assert.ErrorIs(t, ac.Login(ctx, ""), ErrInvalidRole)

	require.NoError(t, ac.Login(ctx, types.RoleAdmin))
	assert.Equal(t, State{Status: LoggedIn, Role: types.RoleAdmin}, ac.State())
	assert.Equal(t, types.RoleAdmin, store.Load(ctx))
	assert.Equal(t, routes.AdminJDs, nav.Last())

	assert.ErrorIs(t, ac.Login(ctx, types.RoleUser), ErrAlreadyAuthenticated)
}

func TestLogin_UserLandsOnDashboard(t *testing.T) {
	ctx := context.Background()
	ac, _, nav := newTestContext(t)
	ac.Rehydrate(ctx)

	require.NoError(t, ac.Login(ctx, types.RoleUser))
	assert.Equal(t, routes.Dashboard, nav.Last())
}

func TestLogin_PersistFailureKeepsLoggedOut(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("read-only")
	ac := NewContext(failingRoleStore{err: boom}, demo, nil, nil)
	ac.Rehydrate(ctx)

	err := ac.Login(ctx, types.RoleUser)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, LoggedOut, ac.State().Status)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	ac, store, nav := newTestContext(t)

	assert.ErrorIs(t, ac.Logout(ctx), ErrNotReady)
	ac.Rehydrate(ctx)
	assert.ErrorIs(t, ac.Logout(ctx), ErrNotAuthenticated)

	require.NoError(t, ac.Login(ctx, types.RoleUser))
	require.NoError(t, ac.Logout(ctx))

	assert.Equal(t, State{Status: LoggedOut}, ac.State())
	assert.Equal(t, types.Role(""), store.Load(ctx))
	assert.Equal(t, routes.Login, nav.Last())
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name     string
		req      types.LoginRequest
		wantErr  error
		wantRole types.Role
	}{
		{name: "user", req: types.LoginRequest{Username: "user", Password: "userpass"}, wantRole: types.RoleUser},
		{name: "admin with role", req: types.LoginRequest{Username: "admin", Password: "adminpass", Role: "admin"}, wantRole: types.RoleAdmin},
		{name: "wrong password", req: types.LoginRequest{Username: "user", Password: "nope"}, wantErr: ErrInvalidCredentials},
		{name: "role mismatch", req: types.LoginRequest{Username: "user", Password: "userpass", Role: "admin"}, wantErr: ErrInvalidCredentials},
		{name: "unknown user", req: types.LoginRequest{Username: "eve", Password: "x"}, wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ac, _, _ := newTestContext(t)
			ac.Rehydrate(ctx)

			err := ac.Authenticate(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, LoggedOut, ac.State().Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, ac.State().Role)
		})
	}
}

func TestAuthenticate_InvalidRequest(t *testing.T) {
	ctx := context.Background()
	ac, _, _ := newTestContext(t)
	ac.Rehydrate(ctx)

	err := ac.Authenticate(ctx, types.LoginRequest{Password: "userpass"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid login request")
}

func TestState_Allowed(t *testing.T) {
	assert.False(t, State{Status: Unknown}.Allowed(nil))
	assert.False(t, State{Status: LoggedOut}.Allowed([]types.Role{types.RoleUser}))

	user := State{Status: LoggedIn, Role: types.RoleUser}
	assert.True(t, user.Allowed(nil))
	assert.False(t, user.Allowed([]types.Role{}))
	assert.True(t, user.Allowed([]types.Role{types.RoleUser}))
	assert.False(t, user.Allowed([]types.Role{types.RoleAdmin}))
	assert.True(t, user.Allowed([]types.Role{types.RoleAdmin, types.RoleUser}))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "logged_in", LoggedIn.String())
	assert.Equal(t, "status(9)", Status(9).String())
}
