// Package schemas holds the JSON Schema documents for every persisted record.
package schemas

import "embed"

// Files contains every *.schema.json document in this directory.
//
//go:embed *.schema.json
var Files embed.FS

// Schema file names.
const (
	Session          = "session.schema.json"
	Auth             = "auth.schema.json"
	InterviewResults = "interview_results.schema.json"
)
