package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// LoginRequest represents a credential check against the configured demo users.
// Role is optional; when set the user must hold that role.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

// JobDescriptionPayload represents the request to add a job description to the admin catalog.
type JobDescriptionPayload struct {
	Title   string    `json:"title" validate:"required"`
	Company string    `json:"company" validate:"required"`
	Text    string    `json:"text" validate:"required"`
	Date    time.Time `json:"date"`
}

// JobDescription represents a catalog entry as returned by the admin endpoints.
type JobDescription struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Company   string     `json:"company"`
	Text      string     `json:"text"`
	JDText    string     `json:"jd_text,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Body returns the description text, falling back to the jd_text alias.
func (j JobDescription) Body() string {
	if j.Text != "" {
		return j.Text
	}
	return j.JDText
}

// When returns the posting date, falling back to the creation time.
func (j JobDescription) When() time.Time {
	if j.Date != nil {
		return *j.Date
	}
	if j.CreatedAt != nil {
		return *j.CreatedAt
	}
	return time.Time{}
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the JobDescriptionPayload using the validator.
func (r *JobDescriptionPayload) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
