package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/talentfit/internal/logging"
	"github.com/jonathan/talentfit/internal/storage"
	"github.com/jonathan/talentfit/internal/types"
	schemafiles "github.com/jonathan/talentfit/schemas"
	"go.uber.org/zap"
)

// RoleStore persists the authentication record under the role key.
type RoleStore struct {
	backend storage.Backend
	logger  *zap.Logger
}

// NewRoleStore creates a role store over backend.
func NewRoleStore(backend storage.Backend, logger *zap.Logger) *RoleStore {
	return &RoleStore{backend: backend, logger: logging.OrNop(logger)}
}

// Load returns the stored role, or "" when absent or invalid.
func (s *RoleStore) Load(ctx context.Context) types.Role {
	var rec types.AuthRecord
	if !loadBlob(ctx, s.backend, types.RoleKey, schemafiles.Auth, &rec, s.logger) {
		return ""
	}
	role, err := types.ParseRole(string(rec.Role))
	if err != nil {
		s.logger.Warn("stored role is invalid, ignoring it", zap.Error(err))
		return ""
	}
	return role
}

// Save stores role.
func (s *RoleStore) Save(ctx context.Context, role types.Role) error {
	data, err := json.Marshal(types.AuthRecord{Role: role})
	if err != nil {
		return fmt.Errorf("failed to marshal role: %w", err)
	}
	if err := s.backend.Put(ctx, types.RoleKey, data); err != nil {
		return fmt.Errorf("failed to save role: %w", err)
	}
	return nil
}

// Clear removes the stored role.
func (s *RoleStore) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, types.RoleKey); err != nil {
		return fmt.Errorf("failed to clear role: %w", err)
	}
	return nil
}
