// Package session persists the candidate evaluation record between runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/talentfit/internal/logging"
	"github.com/jonathan/talentfit/internal/progress"
	"github.com/jonathan/talentfit/internal/schemas"
	"github.com/jonathan/talentfit/internal/storage"
	"github.com/jonathan/talentfit/internal/types"
	schemafiles "github.com/jonathan/talentfit/schemas"
	"go.uber.org/zap"
)

// Store loads and saves the single session record.
// Load never fails: an absent, unreadable or corrupted record reads as nil.
type Store interface {
	Load(ctx context.Context) *types.SessionRecord
	Save(ctx context.Context, rec *types.SessionRecord) error
	Clear(ctx context.Context) error
}

// BlobStore keeps the session record as one JSON blob in a storage backend.
type BlobStore struct {
	backend storage.Backend
	key     string
	logger  *zap.Logger
}

// NewBlobStore creates a store over backend using the standard session key.
func NewBlobStore(backend storage.Backend, logger *zap.Logger) *BlobStore {
	return &BlobStore{backend: backend, key: types.SessionKey, logger: logging.OrNop(logger)}
}

// Load reads and validates the record.
func (s *BlobStore) Load(ctx context.Context) *types.SessionRecord {
	var rec types.SessionRecord
	if !loadBlob(ctx, s.backend, s.key, schemafiles.Session, &rec, s.logger) {
		return nil
	}
	return &rec
}

// Save refreshes the progress hint and replaces the stored record.
func (s *BlobStore) Save(ctx context.Context, rec *types.SessionRecord) error {
	if rec == nil {
		return fmt.Errorf("save session: nil record")
	}
	rec.State.Normalize()
	rec.ProgressHint = progress.Compute(rec.State).Percent

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.logger.Debug("session saved",
		zap.String("thread_id", rec.Thread()),
		zap.Int("progress", rec.ProgressHint))
	return nil
}

// Clear removes the record.
func (s *BlobStore) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// loadBlob reads key, validates it against schemaName and decodes it into out.
// It reports false for any reason the record is unusable.
func loadBlob(ctx context.Context, backend storage.Backend, key, schemaName string, out any, logger *zap.Logger) bool {
	data, err := backend.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		logger.Warn("failed to read stored record", zap.String("key", key), zap.Error(err))
		return false
	}

	if err := schemas.ValidateRecord(schemaName, data); err != nil {
		logger.Warn("stored record failed validation, ignoring it", zap.String("key", key), zap.Error(err))
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		logger.Warn("stored record could not be decoded, ignoring it", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}
