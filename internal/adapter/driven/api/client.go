// Package api implements the APIGateway port over HTTP(S) with JSON bodies.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/qbique/internal/domain/model"
	"github.com/ericfisherdev/qbique/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.APIGateway = (*Client)(nil)

// APIKeyHeader carries the profile secret on every authenticated request.
const APIKeyHeader = "X-API-Key"

// requestIDHeader correlates a CLI request with server logs.
const requestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response is read for the message.
const maxErrorBody = 1 << 20

// ProfileResolver supplies the settings and credentials a request needs. The
// configuration service satisfies it.
type ProfileResolver interface {
	Settings() model.Settings
	Credential(profile string) (model.Credential, bool)
}

// Client implements the driven.APIGateway port.
type Client struct {
	http      *http.Client
	resolver  ProfileResolver
	userAgent string
	logger    *slog.Logger
}

// NewClient creates a Client with the following transport stack:
//  1. httpcache (ETag / Cache-Control aware conditional requests)
//  2. http.DefaultTransport
//
// Deadlines are applied per call from the resolved timeout, not on the
// http.Client, so a per-call override can lengthen or shorten them.
func NewClient(resolver ProfileResolver, version string, logger *slog.Logger) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	return NewClientWithHTTPClient(&http.Client{Transport: cacheTransport}, resolver, version, logger)
}

// NewClientWithHTTPClient creates a Client around a caller-supplied
// http.Client. Intended for tests that inject an httptest server client.
func NewClientWithHTTPClient(httpClient *http.Client, resolver ProfileResolver, version string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:      httpClient,
		resolver:  resolver,
		userAgent: "qbique-cli/" + version,
		logger:    logger,
	}
}

// Call issues one request and returns the raw response body. Every failure
// is a *model.RequestError.
func (c *Client) Call(ctx context.Context, method, path string, body any, opts model.CallOptions) ([]byte, error) {
	settings := c.resolver.Settings()
	profile := opts.Profile
	if profile == "" {
		profile = settings.Profile
	}
	cred, _ := c.resolver.Credential(profile)

	endpoint := resolveEndpoint(opts.Endpoint, cred.Endpoint, settings.Endpoint)
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = cred.APIKey
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = settings.Timeout()
	}

	target, err := joinURL(endpoint, path)
	if err != nil {
		return nil, &model.RequestError{Kind: model.ErrKindNetwork, Endpoint: endpoint, Message: err.Error(), Err: err}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &model.RequestError{
				Kind:     model.ErrKindNetwork,
				Endpoint: endpoint,
				Message:  fmt.Sprintf("encode request body for %s %s: %v", method, path, err),
				Err:      err,
			}
		}
		reader = bytes.NewReader(encoded)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &model.RequestError{Kind: model.ErrKindNetwork, Endpoint: endpoint, Message: err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, uuid.NewString())
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set(APIKeyHeader, apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		classified := classifyTransportError(err, endpoint)
		c.logger.Debug("api call failed",
			"method", method,
			"path", path,
			"kind", classified.Kind,
			"duration", time.Since(start).Round(time.Millisecond),
		)
		return nil, classified
	}
	defer resp.Body.Close()

	c.logger.Debug("api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"cached", resp.Header.Get(httpcache.XFromCache) != "",
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &model.RequestError{
			Kind:     model.ErrKindAPI,
			Status:   resp.StatusCode,
			Message:  extractErrorMessage(data),
			Endpoint: endpoint,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err, endpoint)
	}
	return data, nil
}

// resolveEndpoint picks the first non-empty endpoint in precedence order:
// per-call override, profile override, global setting.
func resolveEndpoint(candidates ...string) string {
	for _, e := range candidates {
		if e != "" {
			return e
		}
	}
	return ""
}

// joinURL appends path to the endpoint, tolerating a trailing slash on the
// endpoint and a missing leading slash on the path.
func joinURL(endpoint, path string) (string, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("endpoint %q is not an absolute URL", endpoint)
	}

	rel, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", path, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(rel).String(), nil
}
