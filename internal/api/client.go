package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ytget/yt-web-client/internal/model"
)

// Endpoint paths relative to the server origin
const (
	PathInfo     = "/api/info"
	PathDownload = "/api/download"
	PathStatus   = "/api/status/"
	PathFile     = "/api/file/"
	PathHealth   = "/health"
)

const (
	HeaderRequestID = "X-Request-ID"
	DefaultUA       = "yt-web-client/dev"

	// JSON bodies are small; anything larger is not a valid response.
	maxJSONBody = 1 << 20

	fileNotFoundMessage = "File not found or link expired"
	fallbackFileExt     = ".mp4"
)

// Client talks to the download server. A zero request timeout leaves the
// transport's own behaviour in charge.
type Client struct {
	base      string
	http      *http.Client
	timeout   time.Duration
	userAgent string
	logger    zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the traced default client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds each JSON request. File streams are bounded only by their context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger used for request tracing
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the server at base, e.g. "http://localhost:8000"
func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		userAgent: DefaultUA,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server origin without trailing slash
func (c *Client) BaseURL() string {
	return c.base
}

type infoRequest struct {
	URL string `json:"url"`
}

type infoResponse struct {
	Success   bool    `json:"success"`
	Title     string  `json:"title"`
	Uploader  string  `json:"uploader"`
	Duration  float64 `json:"duration"`
	Thumbnail string  `json:"thumbnail"`
	Error     string  `json:"error"`
}

// Info fetches video metadata
func (c *Client) Info(ctx context.Context, videoURL string) (*model.VideoInfo, error) {
	var resp infoResponse
	status, err := c.doJSON(ctx, OpInfo, http.MethodPost, PathInfo, infoRequest{URL: videoURL}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &RemoteError{Op: OpInfo, Status: status, Message: resp.Error}
	}

	duration := int(math.Floor(resp.Duration))
	if duration < 0 {
		duration = 0
	}
	return &model.VideoInfo{
		Title:           resp.Title,
		Uploader:        resp.Uploader,
		DurationSeconds: duration,
		ThumbnailURL:    resp.Thumbnail,
	}, nil
}

type downloadRequest struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
}

type downloadResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
	Error   string `json:"error"`
}

// StartDownload submits a download job and returns its identifier
func (c *Client) StartDownload(ctx context.Context, videoURL string, quality model.Quality) (string, error) {
	var resp downloadResponse
	body := downloadRequest{URL: videoURL, Quality: quality.String()}
	status, err := c.doJSON(ctx, OpDownload, http.MethodPost, PathDownload, body, &resp)
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &RemoteError{Op: OpDownload, Status: status, Message: resp.Error}
	}
	return resp.JobID, nil
}

type statusResponse struct {
	Status   string   `json:"status"`
	Progress *float64 `json:"progress"`
	Token    string   `json:"token"`
	Error    string   `json:"error"`
}

// Status polls the job once. Unknown status strings are passed through unchanged.
func (c *Client) Status(ctx context.Context, jobID string) (model.JobStatus, error) {
	var resp statusResponse
	if _, err := c.doJSON(ctx, OpStatus, http.MethodGet, PathStatus+url.PathEscape(jobID), nil, &resp); err != nil {
		return model.JobStatus{}, err
	}

	st := model.JobStatus{
		State: model.JobState(resp.Status),
		Token: resp.Token,
		Error: resp.Error,
	}
	if resp.Progress != nil {
		st.Progress = *resp.Progress
	}
	return st, nil
}

// FileURL returns the absolute link for a download token
func (c *Client) FileURL(token string) string {
	return c.base + PathFile + url.PathEscape(token)
}

// File is an open download stream. The caller must close Body.
type File struct {
	Name string
	Size int64 // -1 when unknown
	Body io.ReadCloser
}

// FetchFile opens the one-time file stream for token. The server invalidates the
// token once the download starts, so call it at most once per token.
func (c *Client) FetchFile(ctx context.Context, token string) (*File, error) {
	started := time.Now()
	req, err := c.newRequest(ctx, OpFile, http.MethodGet, PathFile+url.PathEscape(token), nil)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		observeRequest(OpFile, resultTransportError, started)
		return nil, &NetworkError{Op: OpFile, Err: err}
	}

	if res.StatusCode != http.StatusOK {
		defer res.Body.Close()
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(io.LimitReader(res.Body, maxJSONBody)).Decode(&detail)
		observeRequest(OpFile, resultRemoteError, started)
		msg := detail.Detail
		if msg == "" {
			msg = fileNotFoundMessage
		}
		return nil, &RemoteError{Op: OpFile, Status: res.StatusCode, Message: msg}
	}

	observeRequest(OpFile, resultOK, started)
	return &File{
		Name: fileName(res.Header.Get("Content-Disposition"), token),
		Size: res.ContentLength,
		Body: res.Body,
	}, nil
}

// Health checks the server's health endpoint
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	status, err := c.doJSON(ctx, OpHealth, http.MethodGet, PathHealth, nil, &resp)
	if err != nil {
		return err
	}
	if resp.Status != "healthy" {
		return fmt.Errorf("%w: HTTP %d, status %q", ErrUnhealthy, status, resp.Status)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, op, method, path string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &NetworkError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(HeaderRequestID, uuid.NewString())
	return req, nil
}

// doJSON sends a request and decodes the JSON body whatever the HTTP status is:
// the server reports failures in the body, not only through the status code.
func (c *Client) doJSON(ctx context.Context, op, method, path string, body, out any) (int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := time.Now()
	req, err := c.newRequest(ctx, op, method, path, body)
	if err != nil {
		return 0, err
	}
	requestID := req.Header.Get(HeaderRequestID)

	res, err := c.http.Do(req)
	if err != nil {
		observeRequest(op, resultTransportError, started)
		c.logger.Debug().Err(err).Str("op", op).Str("request_id", requestID).Msg("request failed")
		return 0, &NetworkError{Op: op, Err: err}
	}
	defer res.Body.Close()

	if err := json.NewDecoder(io.LimitReader(res.Body, maxJSONBody)).Decode(out); err != nil {
		observeRequest(op, resultDecodeError, started)
		c.logger.Debug().Err(err).Str("op", op).Int("http_status", res.StatusCode).Msg("undecodable response")
		return res.StatusCode, &NetworkError{Op: op, Err: fmt.Errorf("decode response (HTTP %d): %w", res.StatusCode, err)}
	}

	result := resultOK
	if res.StatusCode >= http.StatusBadRequest {
		result = resultRemoteError
	}
	observeRequest(op, result, started)
	c.logger.Debug().
		Str("op", op).
		Str("request_id", requestID).
		Int("http_status", res.StatusCode).
		Dur("took", time.Since(started)).
		Msg("request done")
	return res.StatusCode, nil
}

// fileName extracts a safe base name from a Content-Disposition header
func fileName(disposition, token string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := filepath.Base(params["filename"]); name != "" && name != "." && name != string(filepath.Separator) {
				return name
			}
		}
	}
	return token + fallbackFileExt
}
