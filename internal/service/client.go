package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"time"

	"github.com/yildizm/ResumeScreen/internal/logger"
)

const (
	EndpointPredict    = "/predict"
	EndpointHealth     = "/health"
	EndpointCategories = "/categories"

	// FileField is the multipart field name the service reads uploads from
	FileField = "file"

	// RequestIDHeader carries the per-dispatch identifier
	RequestIDHeader = "X-Request-ID"
)

// Client talks to the resume classification service
type Client struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
	log     *logger.Logger
}

// New creates a client. A nil logger discards diagnostics.
func New(config *Config, log *logger.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, newErrorWithCause(ErrTypeValidation, "", "invalid client configuration", err)
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, newErrorWithCause(ErrTypeValidation, "", "invalid base URL", err)
	}

	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		config:  config,
		client:  &http.Client{},
		baseURL: baseURL,
		log:     log.WithComponent("service"),
	}, nil
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// PredictText classifies raw resume text sent as JSON
func (c *Client) PredictText(ctx context.Context, text, requestID string) (*PredictResponse, error) {
	payload, err := json.Marshal(&PredictRequest{ResumeText: text})
	if err != nil {
		return nil, newErrorWithCause(ErrTypeInternal, EndpointPredict, "failed to marshal request", err)
	}

	return c.predict(ctx, bytes.NewReader(payload), "application/json", requestID)
}

// PredictFile uploads a resume file as multipart form data under field "file"
func (c *Client) PredictFile(ctx context.Context, name string, content io.Reader, requestID string) (*PredictResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FileField, filepath.Base(name)))
	header.Set("Content-Type", contentTypeFor(name))

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, newErrorWithCause(ErrTypeInternal, EndpointPredict, "failed to build upload", err)
	}

	reader := content
	if c.config.MaxUploadBytes > 0 {
		reader = io.LimitReader(content, c.config.MaxUploadBytes+1)
	}

	written, err := io.Copy(part, reader)
	if err != nil {
		return nil, newErrorWithCause(ErrTypeValidation, EndpointPredict, "failed to read file", err)
	}
	if c.config.MaxUploadBytes > 0 && written > c.config.MaxUploadBytes {
		return nil, newError(ErrTypeValidation, EndpointPredict,
			fmt.Sprintf("File is larger than the %d byte upload limit", c.config.MaxUploadBytes))
	}

	if err := mw.Close(); err != nil {
		return nil, newErrorWithCause(ErrTypeInternal, EndpointPredict, "failed to finish upload", err)
	}

	return c.predict(ctx, &body, mw.FormDataContentType(), requestID)
}

func (c *Client) predict(ctx context.Context, body io.Reader, contentType, requestID string) (*PredictResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodPost, EndpointPredict, body, requestID)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var result PredictResponse
	status, err := c.do(req, EndpointPredict, &result)
	if err != nil {
		return nil, err
	}

	if !result.Success {
		message := result.Error
		if message == "" {
			message = "An error occurred while analyzing the resume"
		}
		rejection := newError(ErrTypeRejection, EndpointPredict, message)
		rejection.StatusCode = status
		return &result, rejection
	}

	if status < 200 || status > 299 {
		rejection := newError(ErrTypeRejection, EndpointPredict, fmt.Sprintf("request failed with status %d", status))
		rejection.StatusCode = status
		return &result, rejection
	}

	return &result, nil
}

// Health queries the service health endpoint using the health timeout
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.HealthTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, EndpointHealth, http.NoBody, "")
	if err != nil {
		return nil, err
	}

	var result HealthResponse
	status, err := c.do(req, EndpointHealth, &result)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		e := newError(ErrTypeTransport, EndpointHealth, fmt.Sprintf("health check failed with status %d", status))
		e.StatusCode = status
		return &result, e
	}

	return &result, nil
}

// Categories lists every category the service can predict
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, EndpointCategories, http.NoBody, "")
	if err != nil {
		return nil, err
	}

	var result CategoriesResponse
	status, err := c.do(req, EndpointCategories, &result)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		message := result.Error
		if message == "" {
			message = fmt.Sprintf("categories request failed with status %d", status)
		}
		e := newError(ErrTypeRejection, EndpointCategories, message)
		e.StatusCode = status
		return nil, e
	}

	return result.Categories, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader, requestID string) (*http.Request, error) {
	target := c.baseURL.JoinPath(endpoint)

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, newErrorWithCause(ErrTypeInternal, endpoint, "failed to create request", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if requestID != "" {
		req.Header.Set(RequestIDHeader, requestID)
	}

	return req, nil
}

// do sends req and decodes a JSON body into out regardless of status code,
// since the service reports failures as JSON with 4xx/5xx statuses.
func (c *Client) do(req *http.Request, endpoint string, out interface{}) (int, error) {
	start := time.Now()
	requestID := req.Header.Get(RequestIDHeader)

	resp, err := c.client.Do(req)
	if err != nil {
		message := "request failed"
		if errors.Is(err, context.DeadlineExceeded) {
			message = "request timed out"
		}
		c.log.WarnWithFields("%s %s failed", []logger.Field{logger.RequestID(requestID), logger.Error(err)}, req.Method, endpoint)
		return 0, newErrorWithCause(ErrTypeTransport, endpoint, message, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.DebugWithFields("%s %s -> %d", []logger.Field{
		logger.RequestID(requestID),
		logger.Duration(time.Since(start)),
	}, req.Method, endpoint, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		e := newErrorWithCause(ErrTypeTransport, endpoint, "failed to read response", err)
		e.StatusCode = resp.StatusCode
		return resp.StatusCode, e
	}

	if err := json.Unmarshal(data, out); err != nil {
		e := newErrorWithCause(ErrTypeTransport, endpoint, "response is not valid JSON", err)
		e.StatusCode = resp.StatusCode
		return resp.StatusCode, e
	}

	return resp.StatusCode, nil
}

// contentTypeFor guesses a part content type from the file name
func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
