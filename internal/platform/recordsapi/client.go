// Package recordsapi is the HTTP client for the records service that owns
// encounters, medication and diagnosis lists, and ingestion. It implements
// the Repository interfaces of the timeline, medication, diagnosis and
// changes domains.
package recordsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehr/timeline/internal/domain/changes"
	"github.com/ehr/timeline/internal/domain/diagnosis"
	"github.com/ehr/timeline/internal/domain/medication"
	"github.com/ehr/timeline/internal/domain/timeline"
	"github.com/ehr/timeline/internal/platform/middleware"
)

const maxErrorBody = 4 << 10

var (
	_ timeline.Repository   = (*Client)(nil)
	_ medication.Repository = (*Client)(nil)
	_ diagnosis.Repository  = (*Client)(nil)
	_ changes.Repository    = (*Client)(nil)
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("records api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("records api returned status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "recordsapi").Logger()
	return c
}

func (c *Client) ListEncounters(ctx context.Context) ([]timeline.EncounterRecord, error) {
	var out []timeline.EncounterRecord
	if err := c.getJSON(ctx, "/api/timeline", &out); err != nil {
		return nil, fmt.Errorf("list encounters: %w", err)
	}
	return out, nil
}

func (c *Client) ListMedicationsInUse(ctx context.Context) ([]medication.Entry, error) {
	var out []medication.Entry
	if err := c.getJSON(ctx, "/api/medications-in-use", &out); err != nil {
		return nil, fmt.Errorf("list medications in use: %w", err)
	}
	return out, nil
}

func (c *Client) ListDiagnoses(ctx context.Context) ([]diagnosis.Entry, error) {
	var out []diagnosis.Entry
	if err := c.getJSON(ctx, "/api/diagnoses", &out); err != nil {
		return nil, fmt.Errorf("list diagnoses: %w", err)
	}
	return out, nil
}

func (c *Client) ListChanges(ctx context.Context) (*changes.Set, error) {
	var out changes.Set
	if err := c.getJSON(ctx, "/api/changes", &out); err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	return &out, nil
}

type regularUseBody struct {
	Name       string `json:"name"`
	RegularUse bool   `json:"regular_use"`
}

type activeBody struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func (c *Client) SetMedicationRegularUse(ctx context.Context, name string, regular bool) error {
	if err := c.postJSON(ctx, "/api/medications-in-use", regularUseBody{name, regular}); err != nil {
		return fmt.Errorf("set regular use of %q: %w", name, err)
	}
	return nil
}

func (c *Client) AddMedication(ctx context.Context, name string, regular bool) error {
	if err := c.postJSON(ctx, "/api/medications-in-use/add", regularUseBody{name, regular}); err != nil {
		return fmt.Errorf("add medication %q: %w", name, err)
	}
	return nil
}

func (c *Client) SetDiagnosisActive(ctx context.Context, name string, active bool) error {
	if err := c.postJSON(ctx, "/api/diagnoses", activeBody{name, active}); err != nil {
		return fmt.Errorf("set diagnosis %q active: %w", name, err)
	}
	return nil
}

// UploadFile is one .med file forwarded to the records API.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

// UploadResult mirrors the records API reply. OK reports a 2xx status; the
// body carries either Message or Error.
type UploadResult struct {
	OK      bool   `json:"-"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Text is the message shown to the user.
func (r *UploadResult) Text() string {
	if r.OK {
		return r.Message
	}
	if r.Error != "" {
		return r.Error
	}
	return "Upload failed"
}

// Upload posts files as repeated "file" parts of one multipart form. A
// non-2xx reply is not an error as long as its body decodes; only transport
// and decode failures are.
func (c *Client) Upload(ctx context.Context, files []UploadFile) (*UploadResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile("file", f.Name)
		if err != nil {
			return nil, fmt.Errorf("upload: create part %s: %w", f.Name, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, fmt.Errorf("upload: copy %s: %w", f.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("upload: close form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", body)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	result := &UploadResult{OK: resp.StatusCode >= 200 && resp.StatusCode < 300}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("upload: decode response: %w", err)
	}
	return result, nil
}

// TriggerFetch asks the records API to pull new records from its upstream
// source and returns the message it replies with, whatever the status.
func (c *Client) TriggerFetch(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/fetch", nil)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("fetch: decode response: %w", err)
	}
	return out.Message, nil
}

// File is a streamed raw .med file. The caller closes Body.
type File struct {
	Body               io.ReadCloser
	ContentType        string
	ContentDisposition string
	ContentLength      int64
}

func (c *Client) Download(ctx context.Context, filename string) (*File, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/download/"+url.PathEscape(filename), nil)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", filename, err)
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", filename, err)
	}
	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("download %s: %w", filename, err)
	}
	return &File{
		Body:               resp.Body,
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
		ContentLength:      resp.ContentLength,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	rid, ok := middleware.RequestIDFromContext(ctx)
	if !ok {
		rid = uuid.New().String()
	}
	req.Header.Set(middleware.RequestIDHeader, rid)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	evt := c.logger.Debug().
		Str("request_id", req.Header.Get(middleware.RequestIDHeader)).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Dur("latency", time.Since(start))
	if err != nil {
		evt.Err(err).Msg("records api request failed")
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	evt.Int("status", resp.StatusCode).Msg("records api request")
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(b))}
}
