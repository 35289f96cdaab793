// Package openai implements the ai.Client contract against the OpenAI API.
// File and vector-store endpoints are called directly over HTTP;
// conversational turns go through the official SDK's Responses API.
package openai

import (
	"net/http"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/r26D/openai-ex-pipeline/ai"
	"github.com/r26D/openai-ex-pipeline/config"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// DefaultModel is used when a turn does not name a model.
const DefaultModel = "gpt-4o"

// Client talks to the OpenAI API. It is safe for concurrent use.
type Client struct {
	apiKey       string
	organization string
	project      string
	baseURL      string
	http         *http.Client
	sdk          openaisdk.Client
}

var _ ai.Client = (*Client)(nil)

// Option adjusts the client construction.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint, e.g. a proxy or a
// test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient replaces the HTTP client used for the raw endpoints.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

// New builds a client from the given configuration.
func New(cfg config.Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	c := &Client{
		apiKey:       cfg.APIKey,
		organization: cfg.Organization,
		project:      cfg.Project,
		baseURL:      DefaultBaseURL,
		http:         &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	sdkOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(timeout),
	}
	if cfg.Organization != "" {
		sdkOpts = append(sdkOpts, option.WithOrganization(cfg.Organization))
	}
	if cfg.Project != "" {
		sdkOpts = append(sdkOpts, option.WithProject(cfg.Project))
	}
	if c.baseURL != DefaultBaseURL {
		sdkOpts = append(sdkOpts, option.WithBaseURL(c.baseURL))
	}
	c.sdk = openaisdk.NewClient(sdkOpts...)

	return c
}
