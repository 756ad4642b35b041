package config

import (
	"strings"
	"testing"

	"github.com/jonathan/talentfit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHashing() Hashing {
	return Hashing{Cost: DefaultBcryptCost}
}

func TestHashingFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		pepper   string
		wantCost int
		wantErr  bool
	}{
		{name: "default cost", wantCost: DefaultBcryptCost},
		{name: "valid cost", cost: "12", wantCost: 12},
		{name: "with pepper", cost: "11", pepper: "test-pepper", wantCost: 11},
		{name: "upper bound", cost: "14", wantCost: 14},
		{name: "too low", cost: "9", wantErr: true},
		{name: "too high", cost: "15", wantErr: true},
		{name: "not a number", cost: "12.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.cost)
			t.Setenv("PASSWORD_PEPPER", tt.pepper)

			h, err := HashingFromEnv()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "BCRYPT_COST")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, h.Cost)
			assert.Equal(t, tt.pepper, h.Pepper)
		})
	}
}

func TestHashing_HashAndMatch(t *testing.T) {
	h := testHashing()

	hash, err := h.hash("userpass")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))

	other, err := h.hash("userpass")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "each hash is salted")

	assert.True(t, h.matches("userpass", hash))
	assert.False(t, h.matches("wrong", hash))
	assert.False(t, h.matches("userpass", "not-a-hash"))

	_, err = h.hash(strings.Repeat("x", 73))
	assert.Error(t, err)
}

func TestNewCredentials_DemoUsers(t *testing.T) {
	creds, err := NewCredentials(testHashing(), nil)
	require.NoError(t, err)

	role, ok := creds.Check("user", "userpass")
	assert.True(t, ok)
	assert.Equal(t, types.RoleUser, role)

	role, ok = creds.Check(" Admin ", "adminpass")
	assert.True(t, ok)
	assert.Equal(t, types.RoleAdmin, role)

	_, ok = creds.Check("user", "adminpass")
	assert.False(t, ok)

	_, ok = creds.Check("ghost", "userpass")
	assert.False(t, ok)
}

func TestNewCredentials_PreHashedUser(t *testing.T) {
	h := testHashing()
	hash, err := h.hash("hunter22")
	require.NoError(t, err)

	creds, err := NewCredentials(h, []UserConfig{{Username: "recruiter", PasswordHash: hash, Role: "user"}})
	require.NoError(t, err)

	role, ok := creds.Check("recruiter", "hunter22")
	assert.True(t, ok)
	assert.Equal(t, types.RoleUser, role)

	// Configured users replace the demo users.
	_, ok = creds.Check("user", "userpass")
	assert.False(t, ok)
}

func TestNewCredentials_Pepper(t *testing.T) {
	peppered := Hashing{Cost: DefaultBcryptCost, Pepper: "s3cret"}
	hash, err := peppered.hash("adminpass")
	require.NoError(t, err)

	users := []UserConfig{{Username: "ops", PasswordHash: hash, Role: "admin"}}

	creds, err := NewCredentials(peppered, users)
	require.NoError(t, err)
	_, ok := creds.Check("ops", "adminpass")
	assert.True(t, ok)

	creds, err = NewCredentials(testHashing(), users)
	require.NoError(t, err)
	_, ok = creds.Check("ops", "adminpass")
	assert.False(t, ok, "hash depends on the pepper")
}

func TestNewCredentials_InvalidUsers(t *testing.T) {
	tests := []struct {
		name  string
		users []UserConfig
	}{
		{name: "no password", users: []UserConfig{{Username: "a", Role: "user"}}},
		{name: "bad role", users: []UserConfig{{Username: "a", Password: "p", Role: "owner"}}},
		{name: "no username", users: []UserConfig{{Password: "p", Role: "user"}}},
		{name: "hash not bcrypt", users: []UserConfig{{Username: "a", PasswordHash: "plain", Role: "user"}}},
		{name: "duplicate", users: []UserConfig{
			{Username: "a", Password: "p", Role: "user"},
			{Username: "A", Password: "q", Role: "admin"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCredentials(testHashing(), tt.users)
			assert.Error(t, err)
		})
	}
}
