package session

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/talentfit/internal/storage"
	"github.com/jonathan/talentfit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// failingBackend returns err from every call.
type failingBackend struct {
	err error
}

func (f failingBackend) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingBackend) Put(context.Context, string, []byte) error   { return f.err }
func (f failingBackend) Delete(context.Context, string) error        { return f.err }
func (f failingBackend) Close() error                                { return nil }

func sampleRecord() *types.SessionRecord {
	rec := types.NewSessionRecord()
	rec.ThreadID = types.StringPtr("9c1d2e3f-0000-4000-8000-000000000042")
	rec.State.CandidateSkills = []string{"python", "sql"}
	rec.State.JDSkills = []string{"sql", "airflow"}
	rec.State.JDText = types.StringPtr("Data engineer")
	return rec
}

func TestBlobStore_LoadAbsent(t *testing.T) {
	store := NewBlobStore(storage.NewMemoryBackend(), nil)
	assert.Nil(t, store.Load(context.Background()))
}

func TestBlobStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewBlobStore(storage.NewMemoryBackend(), nil)

	rec := sampleRecord()
	rec.ProgressHint = 99
	require.NoError(t, store.Save(ctx, rec))

	got := store.Load(ctx)
	require.NotNil(t, got)
	assert.Equal(t, rec.Thread(), got.Thread())
	assert.Equal(t, rec.State.CandidateSkills, got.State.CandidateSkills)
	assert.Equal(t, rec.State.JDSkills, got.State.JDSkills)
	// Hint is recomputed on save: resume 15 + job description 20.
	assert.Equal(t, 35, got.ProgressHint)
}

func TestBlobStore_CorruptedRecordReadsAsNil(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{name: "not json", blob: `{"threadId": "abc", "state": `},
		{name: "wrong shape", blob: `{"threadId": 7, "state": {}}`},
		{name: "missing state", blob: `{"threadId": "abc"}`},
		{name: "array", blob: `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backend := storage.NewMemoryBackend()
			require.NoError(t, backend.Put(ctx, types.SessionKey, []byte(tt.blob)))

			core, logs := observer.New(zap.WarnLevel)
			store := NewBlobStore(backend, zap.New(core))

			assert.Nil(t, store.Load(ctx))
			assert.Equal(t, 1, logs.Len())
		})
	}
}

func TestBlobStore_BackendFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")
	store := NewBlobStore(failingBackend{err: boom}, nil)

	assert.Nil(t, store.Load(ctx))

	err := store.Save(ctx, sampleRecord())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, store.Clear(ctx), boom)
}

func TestBlobStore_SaveNil(t *testing.T) {
	store := NewBlobStore(storage.NewMemoryBackend(), nil)
	assert.Error(t, store.Save(context.Background(), nil))
}

func TestBlobStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewBlobStore(storage.NewMemoryBackend(), nil)
	require.NoError(t, store.Save(ctx, sampleRecord()))
	require.NoError(t, store.Clear(ctx))
	assert.Nil(t, store.Load(ctx))
}

func TestBlobStore_LegacyProgressKey(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, types.SessionKey, []byte(`{"threadId":"t","state":{"candidate_skills":["go"]},"progress":15}`)))

	got := NewBlobStore(backend, nil).Load(ctx)
	require.NotNil(t, got)
	assert.Equal(t, 15, got.ProgressHint)
	assert.NotNil(t, got.State.MCQs)
}

func TestBlobStore_FractionalProgressKeepsSession(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, types.SessionKey, []byte(`{"threadId":"t","state":{"candidate_skills":["go"]},"progress":37.5}`)))

	got := NewBlobStore(backend, nil).Load(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "t", got.Thread())
	assert.Equal(t, []string{"go"}, got.State.CandidateSkills)
}

func TestResultsStore(t *testing.T) {
	ctx := context.Background()
	store := NewResultsStore(storage.NewMemoryBackend(), nil)

	assert.Nil(t, store.Load(ctx))
	assert.False(t, store.Exists(ctx))

	score := types.Score(0.7)
	res := &types.InterviewResults{
		InterviewScore: &score,
		Feedback:       types.TextFeedback("Good communication"),
		State: types.InterviewSnapshot{
			CandidateAnswers:   []string{"I built pipelines"},
			InterviewQuestions: []types.InterviewQuestion{{Type: "technical", Question: "Describe a pipeline"}},
		},
	}
	require.NoError(t, store.Save(ctx, res))
	assert.True(t, store.Exists(ctx))

	got := store.Load(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "Good communication", got.Feedback.Text)
	assert.Equal(t, 1, got.AnsweredCount())

	require.NoError(t, store.Clear(ctx))
	assert.Nil(t, store.Load(ctx))
	assert.Error(t, store.Save(ctx, nil))
}

func TestResultsStore_CorruptedValueIsAbsent(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	store := NewResultsStore(backend, nil)

	require.NoError(t, backend.Put(ctx, types.InterviewResultsKey, []byte(`{not json`)))
	assert.Nil(t, store.Load(ctx))
	assert.False(t, store.Exists(ctx))
}

func TestRoleStore(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	store := NewRoleStore(backend, nil)

	assert.Equal(t, types.Role(""), store.Load(ctx))

	require.NoError(t, store.Save(ctx, types.RoleAdmin))
	assert.Equal(t, types.RoleAdmin, store.Load(ctx))

	require.NoError(t, backend.Put(ctx, types.RoleKey, []byte(`"user"`)))
	assert.Equal(t, types.RoleUser, store.Load(ctx))

	require.NoError(t, backend.Put(ctx, types.RoleKey, []byte(`{"role":"superuser"}`)))
	assert.Equal(t, types.Role(""), store.Load(ctx))

	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, types.Role(""), store.Load(ctx))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	assert.Nil(t, store.Load(ctx))

	rec := sampleRecord()
	require.NoError(t, store.Save(ctx, rec))
	assert.Equal(t, 1, store.Saves())

	got := store.Load(ctx)
	require.NotNil(t, got)
	got.State.CandidateSkills[0] = "mutated"
	assert.Equal(t, "python", store.Load(ctx).State.CandidateSkills[0])

	store.SaveErr = errors.New("quota exceeded")
	assert.Error(t, store.Save(ctx, rec))
	assert.Equal(t, 1, store.Saves())

	require.NoError(t, store.Clear(ctx))
	assert.Nil(t, store.Load(ctx))
}
