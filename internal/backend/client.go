package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ippis-portal/internal/metrics"
	"ippis-portal/internal/shared/contextutil"

	"go.uber.org/zap"
)

const maxErrorBody = 64 << 10

type ListMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Body     any // JSON encoded when set
	Resource string

	// RawBody is sent as-is when set; Body is ignored.
	RawBody     io.Reader
	ContentType string
}

// Client talks to the IPPIS REST backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger ...*zap.Logger) *Client {
	l := zap.L().Named("backend.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("backend.client")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  l,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) APIKey() string { return c.apiKey }

// Do executes req and decodes a JSON response into out (may be nil). The backend answers either
// with a bare JSON value or with {"data": ..., "meta": {...}}; both are accepted.
func (c *Client) Do(ctx context.Context, req Request, out any) (ListMeta, error) {
	start := time.Now()
	resource := req.Resource
	if resource == "" {
		resource = "raw"
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return ListMeta{}, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.ObserveBackend(resource, req.Method, 0, time.Since(start))
		c.logger.Error("backend call failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err),
		)
		return ListMeta{}, &UpstreamError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer resp.Body.Close()
	metrics.ObserveBackend(resource, req.Method, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		upErr := &UpstreamError{
			Method:  req.Method,
			Path:    req.Path,
			Status:  resp.StatusCode,
			Body:    body,
			Message: extractMessage(body),
		}
		c.logger.Warn("backend returned error status",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", upErr.Message),
		)
		return ListMeta{}, upErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ListMeta{}, &UpstreamError{Method: req.Method, Path: req.Path, Err: err}
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return ListMeta{}, nil
	}

	meta, err := decode(body, out)
	if err != nil {
		return ListMeta{}, &UpstreamError{
			Method: req.Method,
			Path:   req.Path,
			Err:    fmt.Errorf("decode response: %w", err),
		}
	}
	return meta, nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	contentType := req.ContentType
	switch {
	case req.RawBody != nil:
		body = req.RawBody
	case req.Body != nil:
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build backend request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	c.setIdentityHeaders(ctx, httpReq.Header)
	return httpReq, nil
}

func (c *Client) setIdentityHeaders(ctx context.Context, h http.Header) {
	// The caller's token when there is one, the service key otherwise.
	if token := contextutil.GetAccessToken(ctx); token != "" {
		h.Set("Authorization", "Bearer "+token)
	} else if c.apiKey != "" {
		h.Set("X-API-Key", c.apiKey)
	}
	md := contextutil.ExtractMetadata(ctx)
	if md.RequestID != "" {
		h.Set("X-Request-ID", md.RequestID)
	}
	if md.CompanyID != "" {
		h.Set("X-Organisation-ID", md.CompanyID)
	}
	if md.UserID != "" {
		h.Set("X-Portal-User", md.UserID)
	}
}

func decode(body []byte, out any) (ListMeta, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
			Meta *ListMeta       `json:"meta"`
		}
		if err := json.Unmarshal(trimmed, &env); err == nil && len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return ListMeta{}, err
			}
			if env.Meta != nil {
				return *env.Meta, nil
			}
			return ListMeta{}, nil
		}
	}
	return ListMeta{}, json.Unmarshal(trimmed, out)
}
