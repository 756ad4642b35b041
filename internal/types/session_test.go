//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRecord_RoundTrip(t *testing.T) {
	rec := NewSessionRecord()
	rec.ThreadID = StringPtr("3f2a9c1e-7777-4bcd-9000-000000000001")
	rec.State.CandidateSkills = []string{"python", "sql"}
	rec.ProgressHint = 15

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var out SessionRecord
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, rec.Thread(), out.Thread())
	assert.Equal(t, []string{"python", "sql"}, out.State.CandidateSkills)
	assert.Equal(t, 15, out.ProgressHint)
	assert.Equal(t, "3f2a9c1e", out.ShortThread())
}

func TestSessionRecord_LegacyProgressKey(t *testing.T) {
	var rec SessionRecord
	require.NoError(t, json.Unmarshal([]byte(`{"threadId":"abc","state":{},"progress":35}`), &rec))
	assert.Equal(t, 35, rec.ProgressHint)

	require.NoError(t, json.Unmarshal([]byte(`{"threadId":"abc","state":{},"progress":35,"progressHint":50}`), &rec))
	assert.Equal(t, 50, rec.ProgressHint)
}

func TestSessionRecord_FractionalProgress(t *testing.T) {
	var rec SessionRecord
	require.NoError(t, json.Unmarshal([]byte(`{"threadId":"abc","state":{"candidate_skills":["go"]},"progress":37.5}`), &rec))
	assert.Equal(t, 38, rec.ProgressHint)
	assert.Equal(t, []string{"go"}, rec.State.CandidateSkills)

	require.NoError(t, json.Unmarshal([]byte(`{"threadId":"abc","state":{},"progressHint":64.2}`), &rec))
	assert.Equal(t, 64, rec.ProgressHint)
}

func TestSessionRecord_NullThreadAndMissingState(t *testing.T) {
	var rec SessionRecord
	require.NoError(t, json.Unmarshal([]byte(`{"threadId":null}`), &rec))
	assert.Nil(t, rec.ThreadID)
	assert.NotNil(t, rec.State.CandidateSkills)

	require.NoError(t, json.Unmarshal([]byte(`{"threadId":"  "}`), &rec))
	assert.Nil(t, rec.ThreadID)
	assert.Equal(t, "", rec.ShortThread())
}

func TestSessionRecord_Clone(t *testing.T) {
	rec := NewSessionRecord()
	rec.ThreadID = StringPtr("t-1")
	rec.State.MatchedSkills = []string{"go"}

	c := rec.Clone()
	*c.ThreadID = "t-2"
	c.State.MatchedSkills[0] = "rust"

	assert.Equal(t, "t-1", rec.Thread())
	assert.Equal(t, "go", rec.State.MatchedSkills[0])
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole(" User ")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, role)

	_, err = ParseRole("root")
	require.Error(t, err)
	_, err = ParseRole("")
	require.Error(t, err)
}

func TestAuthRecord_UnmarshalJSON(t *testing.T) {
	var rec AuthRecord
	require.NoError(t, json.Unmarshal([]byte(`{"role":"user"}`), &rec))
	assert.Equal(t, RoleUser, rec.Role)

	require.NoError(t, json.Unmarshal([]byte(`"admin"`), &rec))
	assert.Equal(t, RoleAdmin, rec.Role)

	require.Error(t, json.Unmarshal([]byte(`[1]`), &rec))
}

func TestInterviewResults_AnsweredCount(t *testing.T) {
	var res InterviewResults
	require.NoError(t, json.Unmarshal([]byte(`{
		"interview_score": "0.7",
		"feedback": [{"question_index":1,"review_feedback":"ok"}],
		"state": {"candidate_answers": ["a", " ", "c"], "interview_questions": [{"type":"technical","question":"q1"}]}
	}`), &res))

	assert.Equal(t, 2, res.AnsweredCount())
	require.NotNil(t, res.InterviewScore)
	assert.InDelta(t, 0.7, res.InterviewScore.Float(), 1e-9)
	review, ok := res.Feedback.ForQuestion(0)
	assert.True(t, ok)
	assert.Equal(t, "ok", review)
}
