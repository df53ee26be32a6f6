package client

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hindiconfession/cli/pkg/config"
	"github.com/hindiconfession/cli/pkg/logger"
	json "github.com/json-iterator/go"
)

const userAgent = "HindiConfession-CLI/0.1.0"

// RequestIDHeader carries a per-request id for correlating backend logs.
const RequestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer token for each request. An empty token
// sends the request unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Options configures New.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// FromConfig reads client options from the loaded configuration.
func FromConfig() Options {
	return Options{
		BaseURL: config.GetString("api.base_url"),
		Timeout: time.Duration(config.GetInt("api.timeout")) * time.Second,
	}
}

// New creates an HTTP client for the backend. The token is read from tokens
// on every request so logins and logouts take effect immediately.
func New(opts Options, tokens TokenSource) *resty.Client {
	httpClient := resty.New()

	httpClient.SetBaseURL(opts.BaseURL)
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	httpClient.SetHeader("User-Agent", userAgent)
	httpClient.SetHeader("Accept", "application/json")
	httpClient.SetRetryCount(0)
	httpClient.SetJSONMarshaler(json.Marshal)
	httpClient.SetJSONUnmarshaler(json.Unmarshal)

	httpClient.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		req.SetHeader(RequestIDHeader, uuid.NewString())

		if tokens != nil {
			if token := tokens.Token(); token != "" {
				req.SetAuthToken(token)
			}
		}

		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL, "request_id", req.Header.Get(RequestIDHeader))
		return nil
	})

	httpClient.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response", "status", resp.StatusCode(), "url", resp.Request.URL, "duration", resp.Time())
		return nil
	})

	return httpClient
}
