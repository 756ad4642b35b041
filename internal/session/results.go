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

// ResultsStore persists the latest interview evaluation under its own key.
type ResultsStore struct {
	backend storage.Backend
	logger  *zap.Logger
}

// NewResultsStore creates a results store over backend.
func NewResultsStore(backend storage.Backend, logger *zap.Logger) *ResultsStore {
	return &ResultsStore{backend: backend, logger: logging.OrNop(logger)}
}

// Load returns the stored results or nil.
func (s *ResultsStore) Load(ctx context.Context) *types.InterviewResults {
	var res types.InterviewResults
	if !loadBlob(ctx, s.backend, types.InterviewResultsKey, schemafiles.InterviewResults, &res, s.logger) {
		return nil
	}
	return &res
}

// Exists reports whether readable results are stored. A corrupted value counts as absent.
func (s *ResultsStore) Exists(ctx context.Context) bool {
	return s.Load(ctx) != nil
}

// Save replaces the stored results.
func (s *ResultsStore) Save(ctx context.Context, res *types.InterviewResults) error {
	if res == nil {
		return fmt.Errorf("save interview results: nil results")
	}
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal interview results: %w", err)
	}
	if err := s.backend.Put(ctx, types.InterviewResultsKey, data); err != nil {
		return fmt.Errorf("failed to save interview results: %w", err)
	}
	return nil
}

// Clear removes the stored results.
func (s *ResultsStore) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, types.InterviewResultsKey); err != nil {
		return fmt.Errorf("failed to clear interview results: %w", err)
	}
	return nil
}
