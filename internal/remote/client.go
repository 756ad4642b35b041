// Package remote is the client for the candidate-evaluation workflow service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talentfit/internal/logging"
	"github.com/jonathan/talentfit/internal/types"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every call unless overridden.
const DefaultTimeout = 60 * time.Second

// Endpoint paths.
const (
	EndpointResumeUpload      = "/resume-upload"
	EndpointJDUpload          = "/jd-upload"
	EndpointJobMatch          = "/job-match"
	EndpointMatch             = "/match"
	EndpointSkillGap          = "/skill-gap"
	EndpointAssessment        = "/assessment"
	EndpointInterview         = "/interview"
	EndpointEvaluateInterview = "/evaluate-interview"
	EndpointTranscribe        = "/transcribe"
	EndpointAdminJDs          = "/admin/jds"
)

// Service is the workflow service contract, one method per step.
type Service interface {
	UploadResume(ctx context.Context, filename string, r io.Reader) (*StepResponse, error)
	UploadJobDescription(ctx context.Context, req StepRequest) (*StepResponse, error)
	MatchJobs(ctx context.Context, req StepRequest) (*StepResponse, error)
	Match(ctx context.Context, req StepRequest) (*StepResponse, error)
	AnalyzeSkillGap(ctx context.Context, req StepRequest) (*StepResponse, error)
	GenerateAssessment(ctx context.Context, req StepRequest) (*StepResponse, error)
	GenerateInterview(ctx context.Context, req StepRequest) (*StepResponse, error)
	EvaluateInterview(ctx context.Context, req StepRequest) (*StepResponse, error)
	Transcribe(ctx context.Context, threadID string, questionIndex int, filename string, r io.Reader) (*Transcription, error)
	ListJobDescriptions(ctx context.Context) ([]types.JobDescription, error)
	CreateJobDescription(ctx context.Context, payload types.JobDescriptionPayload) (*types.JobDescription, error)
	DeleteJobDescription(ctx context.Context, id int64) error
}

// Client is the HTTP implementation of Service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrNop(l)
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// UploadResume sends the resume as multipart field "resume".
func (c *Client) UploadResume(ctx context.Context, filename string, r io.Reader) (*StepResponse, error) {
	body, contentType, err := multipartBody(nil, "resume", filename, r)
	if err != nil {
		return nil, &Error{Endpoint: EndpointResumeUpload, Message: "failed to build upload", Cause: err}
	}
	var out StepResponse
	if err := c.do(ctx, http.MethodPost, EndpointResumeUpload, contentType, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadJobDescription submits the job description carried in the state.
func (c *Client) UploadJobDescription(ctx context.Context, req StepRequest) (*StepResponse, error) {
	return c.step(ctx, EndpointJDUpload, req)
}

// MatchJobs matches the candidate against the whole job catalog.
func (c *Client) MatchJobs(ctx context.Context, req StepRequest) (*StepResponse, error) {
	return c.step(ctx, EndpointJobMatch, req)
}

// Match scores the resume against the job description.
func (c *Client) Match(ctx context.Context, req StepRequest) (*StepResponse, error) {
	return c.step(ctx, EndpointMatch, req)
}

// AnalyzeSkillGap recommends resources for missing skills.
func (c *Client) AnalyzeSkillGap(ctx context.Context, req StepRequest) (*StepResponse, error) {
	return c.step(ctx, EndpointSkillGap, req)
}

// GenerateAssessment generates multiple-choice questions.
func (c *Client) GenerateAssessment(ctx context.Context, req StepRequest) (*StepResponse, error) {
	return c.step(ctx, EndpointAssessment, req)
}

// GenerateInterview generates interview questions.
func (c *Client) GenerateInterview(ctx context.Context, req StepRequest) (*StepResponse, error) {
	return c.step(ctx, EndpointInterview, req)
}

// EvaluateInterview scores the candidate's answers.
func (c *Client) EvaluateInterview(ctx context.Context, req StepRequest) (*StepResponse, error) {
	return c.step(ctx, EndpointEvaluateInterview, req)
}

// Transcribe converts a recorded answer to text.
func (c *Client) Transcribe(ctx context.Context, threadID string, questionIndex int, filename string, r io.Reader) (*Transcription, error) {
	fields := map[string]string{
		"thread_id":      threadID,
		"question_index": strconv.Itoa(questionIndex),
	}
	body, contentType, err := multipartBody(fields, "audio", filename, r)
	if err != nil {
		return nil, &Error{Endpoint: EndpointTranscribe, Message: "failed to build upload", Cause: err}
	}
	var out Transcription
	if err := c.do(ctx, http.MethodPost, EndpointTranscribe, contentType, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListJobDescriptions returns the admin job catalog.
func (c *Client) ListJobDescriptions(ctx context.Context) ([]types.JobDescription, error) {
	var out []types.JobDescription
	if err := c.do(ctx, http.MethodGet, EndpointAdminJDs, "", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []types.JobDescription{}
	}
	return out, nil
}

// CreateJobDescription adds a job description to the catalog.
func (c *Client) CreateJobDescription(ctx context.Context, payload types.JobDescriptionPayload) (*types.JobDescription, error) {
	if err := payload.Validate(); err != nil {
		return nil, &Error{Endpoint: EndpointAdminJDs, Message: "invalid job description", Cause: err}
	}
	if payload.Date.IsZero() {
		payload.Date = time.Now().UTC()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Endpoint: EndpointAdminJDs, Message: "failed to encode request", Cause: err}
	}

	var out types.JobDescription
	if err := c.do(ctx, http.MethodPost, EndpointAdminJDs, "application/json", bytes.NewReader(data), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteJobDescription removes a catalog entry.
func (c *Client) DeleteJobDescription(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", EndpointAdminJDs, id), "", nil, nil)
}

func (c *Client) step(ctx context.Context, endpoint string, req StepRequest) (*StepResponse, error) {
	req.State.Normalize()
	data, err := json.Marshal(req)
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "failed to encode request", Cause: err}
	}
	var out StepResponse
	if err := c.do(ctx, http.MethodPost, endpoint, "application/json", bytes.NewReader(data), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one request under the client timeout and decodes a JSON body into out.
func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body io.Reader, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return &Error{Endpoint: endpoint, Message: "failed to create request", Cause: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		c.logger.Warn("remote call failed",
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return &Error{Endpoint: endpoint, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	c.logger.Debug("remote call",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: errorMessage(respBody, resp.StatusCode)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// errorMessage extracts a readable message from an error body.
func errorMessage(body []byte, status int) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := decodeString(payload.Detail); msg != "" {
			return msg
		}
		if len(payload.Detail) > 0 && !isNull(payload.Detail) {
			return string(payload.Detail)
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return http.StatusText(status)
	}
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}

func multipartBody(fields map[string]string, fileField, filename string, r io.Reader) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	part, err := w.CreateFormFile(fileField, filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
