// Package payrollapi is the HTTP adapter for the remote payroll REST backend.
package payrollapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/domain/entity"
	"go.uber.org/zap"
)

const (
	mePath           = "/auth/me"
	defaultFilename  = "payslip.pdf"
	maxErrorBodySize = 64 << 10
	requestIDHeader  = "X-Request-ID"
)

var filenamePattern = regexp.MustCompile(`filename="?([^";]+)"?`)

// Config holds payroll API client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements port.PayrollAPI over net/http
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new payroll API client
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %s", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Me implements port.PayrollAPI
func (c *Client) Me(ctx context.Context) (*entity.Identity, error) {
	var identity entity.Identity
	if err := c.GetJSON(ctx, mePath, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// GetJSON implements port.PayrollAPI
func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.decode(resp, path, out)
}

// PostJSON implements port.PayrollAPI
func (c *Client) PostJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	resp, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.decode(resp, path, out)
}

// Download implements port.PayrollAPI
func (c *Client) Download(ctx context.Context, path string) (*entity.PayslipFile, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.apiError(resp, path)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read download body: %w", err)
	}

	file := &entity.PayslipFile{
		Filename:    FilenameFromDisposition(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}
	if file.ContentType == "" {
		file.ContentType = "application/pdf"
	}

	c.logger.Debug("Downloaded document",
		zap.String("path", path),
		zap.String("filename", file.Filename),
		zap.Int("size", len(data)))

	return file, nil
}

// FilenameFromDisposition extracts the filename from a Content-Disposition
// header, defaulting to payslip.pdf.
func FilenameFromDisposition(header string) string {
	if header == "" {
		return defaultFilename
	}
	if _, params, err := mime.ParseMediaType(header); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}
	if m := filenamePattern.FindStringSubmatch(header); len(m) == 2 && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}
	return defaultFilename
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session, ok := port.SessionFrom(ctx); ok {
		if session.Cookie != "" {
			req.Header.Set("Cookie", session.Cookie)
		}
		if session.RequestID != "" {
			req.Header.Set(requestIDHeader, session.RequestID)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Payroll API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.logger.Debug("Payroll API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	return resp, nil
}

func (c *Client) resolve(path string) (string, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	if rel.IsAbs() {
		return "", fmt.Errorf("path must be relative: %s", path)
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(rel.Path, "/")
	if rel.RawPath != "" {
		u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/" + strings.TrimLeft(rel.RawPath, "/")
	}
	u.RawQuery = rel.RawQuery
	return u.String(), nil
}

func (c *Client) decode(resp *http.Response, path string, out interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(resp, path)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid response format from %s: %w", path, err)
	}
	return nil
}

// apiError builds a *port.APIError from the body's message, then error field,
// then the status text.
func (c *Client) apiError(resp *http.Response, path string) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	apiErr := &port.APIError{StatusCode: resp.StatusCode, Path: path}

	var body struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = messageText(body.Message)
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	} else if text := strings.TrimSpace(string(data)); text != "" && !strings.HasPrefix(text, "<") {
		apiErr.Message = text
	}

	c.logger.Info("Payroll API returned error",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("message", apiErr.Message))

	return apiErr
}

// messageText handles NestJS-style validation errors where message is an array.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return ""
}

// IsTimeout reports whether err was caused by a deadline or client timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
