package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talentfit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_UploadResume(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, EndpointResumeUpload, r.URL.Path)
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err, "request id should be a uuid")

		file, header, err := r.FormFile("resume")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "cv.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4 resume", string(data))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"thread_id": "t-123",
			"state": {"candidate_skills": ["python", "sql"], "education": ["BSc"]},
			"resume_skills": ["python", "sql"]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.UploadResume(context.Background(), "cv.pdf", strings.NewReader("%PDF-1.4 resume"))
	require.NoError(t, err)

	assert.Equal(t, "t-123", resp.ThreadID)
	assert.Equal(t, []string{"python", "sql"}, resp.Strings("resume_skills"))
	assert.Contains(t, string(resp.State), "candidate_skills")
}

func TestClient_StepSendsStateAndThread(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointMatch, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			State    map[string]json.RawMessage `json:"state"`
			ThreadID string                     `json:"thread_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "t-9", req.ThreadID)
		assert.JSONEq(t, `["go"]`, string(req.State["candidate_skills"]))
		assert.JSONEq(t, `[]`, string(req.State["jd_words"]))

		_, _ = w.Write([]byte(`{"threadId":"t-9","state":{"match_score":0.8},"match_score":0.8,"matched_skills":["go"],"missing_skills":["sql"]}`))
	}))
	defer server.Close()

	var state types.CandidateState
	state.CandidateSkills = []string{"go"}

	resp, err := NewClient(server.URL + "/").Match(context.Background(), StepRequest{State: state, ThreadID: "t-9"})
	require.NoError(t, err)

	assert.Equal(t, "t-9", resp.ThreadID)
	score, ok := resp.Score("match_score")
	assert.True(t, ok)
	assert.InDelta(t, 0.8, score.Float(), 1e-9)
	assert.Equal(t, []string{"sql"}, resp.Strings("missing_skills"))
}

func TestClient_EndpointsPerStep(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		_, _ = w.Write([]byte(`{"thread_id":"t","state":{}}`))
	}))
	defer server.Close()

	ctx := context.Background()
	c := NewClient(server.URL)
	req := StepRequest{ThreadID: "t"}

	for _, call := range []func(context.Context, StepRequest) (*StepResponse, error){
		c.UploadJobDescription, c.MatchJobs, c.Match, c.AnalyzeSkillGap,
		c.GenerateAssessment, c.GenerateInterview, c.EvaluateInterview,
	} {
		_, err := call(ctx, req)
		require.NoError(t, err)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		EndpointJDUpload, EndpointJobMatch, EndpointMatch, EndpointSkillGap,
		EndpointAssessment, EndpointInterview, EndpointEvaluateInterview,
	}, paths)
}

func TestClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"jd_text is required"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).UploadJobDescription(context.Background(), StepRequest{})
	require.Error(t, err)

	var remoteErr *Error
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, EndpointJDUpload, remoteErr.Endpoint)
	assert.Equal(t, http.StatusUnprocessableEntity, remoteErr.StatusCode)
	assert.Equal(t, "jd_text is required", remoteErr.Message)
	assert.False(t, remoteErr.Timeout())
	assert.Contains(t, err.Error(), "HTTP 422")
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewClient(server.URL, WithTimeout(50*time.Millisecond)).Match(context.Background(), StepRequest{})
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClient_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).GenerateInterview(context.Background(), StepRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestClient_Transcribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointTranscribe, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "t-1", r.FormValue("thread_id"))
		assert.Equal(t, "2", r.FormValue("question_index"))
		_, header, err := r.FormFile("audio")
		require.NoError(t, err)
		assert.Equal(t, "answer.webm", header.Filename)
		_, _ = w.Write([]byte(`{"text":"I would shard the table"}`))
	}))
	defer server.Close()

	out, err := NewClient(server.URL).Transcribe(context.Background(), "t-1", 2, "answer.webm", strings.NewReader("webm"))
	require.NoError(t, err)
	assert.Equal(t, "I would shard the table", out.Text)
}

func TestClient_AdminJobDescriptions(t *testing.T) {
	var created types.JobDescriptionPayload
	var deleted string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == EndpointAdminJDs:
			_, _ = w.Write([]byte(`[{"id":1,"title":"Data Engineer","company":"Acme","text":"Build pipelines","date":"2025-01-02T03:04:05Z"},{"id":2,"title":"SRE","company":"Initech","jd_text":"Keep it up"}]`))
		case r.Method == http.MethodPost && r.URL.Path == EndpointAdminJDs:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			_, _ = w.Write([]byte(`{"id":3,"title":"ML Engineer","company":"Acme","text":"Train models"}`))
		case r.Method == http.MethodDelete:
			deleted = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	c := NewClient(server.URL)

	jds, err := c.ListJobDescriptions(ctx)
	require.NoError(t, err)
	require.Len(t, jds, 2)
	assert.Equal(t, "Keep it up", jds[1].Body())
	assert.Equal(t, 2025, jds[0].When().Year())

	jd, err := c.CreateJobDescription(ctx, types.JobDescriptionPayload{Title: "ML Engineer", Company: "Acme", Text: "Train models"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), jd.ID)
	assert.Equal(t, "Train models", created.Text)
	assert.False(t, created.Date.IsZero())

	_, err = c.CreateJobDescription(ctx, types.JobDescriptionPayload{Title: "No body"})
	require.Error(t, err)

	require.NoError(t, c.DeleteJobDescription(ctx, 3))
	assert.Equal(t, "/admin/jds/3", deleted)
}

func TestClient_ListEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer server.Close()

	jds, err := NewClient(server.URL).ListJobDescriptions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, jds)
	assert.Empty(t, jds)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", errorMessage([]byte(`{"error":"boom"}`), 500))
	assert.Equal(t, `[{"loc":["body"]}]`, errorMessage([]byte(`{"detail":[{"loc":["body"]}]}`), 422))
	assert.Equal(t, "Bad Gateway", errorMessage(nil, http.StatusBadGateway))
	assert.Equal(t, "plain failure", errorMessage([]byte("plain failure"), 500))
	assert.Len(t, errorMessage([]byte(strings.Repeat("x", 500)), 500), 203)
}

func TestClient_Timeout_Option(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewClient("http://x").Timeout())
	assert.Equal(t, time.Second, NewClient("http://x", WithTimeout(time.Second)).Timeout())
	assert.Equal(t, DefaultTimeout, NewClient("http://x", WithTimeout(0)).Timeout())
}
