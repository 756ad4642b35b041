package schemas_test

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/jonathan/talentfit/internal/schemas"
	schemafiles "github.com/jonathan/talentfit/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaFiles = []string{
	schemafiles.Session,
	schemafiles.Auth,
	schemafiles.InterviewResults,
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := fs.ReadFile(schemafiles.Files, schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON: %s", schemaFile)

			_, hasSchema := schemaObj["$schema"]
			_, hasTitle := schemaObj["title"]
			assert.True(t, hasSchema, "schema should declare $schema")
			assert.True(t, hasTitle, "schema should declare a title")
		})
	}
}

func TestEmbeddedFiles_MatchDeclaredNames(t *testing.T) {
	matches, err := fs.Glob(schemafiles.Files, "*.schema.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, schemaFiles, matches)
}

func TestSessionSchema_AcceptsStoredRecord(t *testing.T) {
	doc := `{
		"threadId": "b7e0c9a4-5d2f-4c1e-8a3b-2f6d7e8c9a10",
		"progressHint": 50,
		"state": {
			"candidate_skills": ["python", "sql"],
			"jd_text": "Data engineer",
			"jd_skills": ["sql", "spark"],
			"match_score": 0.8,
			"skill_resources": {"spark": [{"title": "Spark docs", "url": "https://spark.apache.org"}]},
			"feedback": [{"question_index": 1, "review_feedback": "ok"}]
		}
	}`
	assert.NoError(t, schemas.ValidateRecord(schemafiles.Session, []byte(doc)))
}
