// Package config holds the immutable client configuration. Construction is
// the single fail-fast point: a missing API credential is a startup error,
// never a pipeline-stage error.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultTimeout bounds each request made by the real client.
const DefaultTimeout = 90 * time.Second

var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

type Config struct {
	APIKey       string
	Organization string
	Project      string
	Timeout      time.Duration
}

// New builds a Config from the environment. OPENAI_API_KEY is mandatory;
// OPENAI_ORG_ID, OPENAI_PROJECT_ID and OPENAI_TIMEOUT_MS are optional.
func New() (Config, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return Config{}, ErrMissingAPIKey
	}

	cfg := Config{
		APIKey:       apiKey,
		Organization: os.Getenv("OPENAI_ORG_ID"),
		Project:      os.Getenv("OPENAI_PROJECT_ID"),
		Timeout:      DefaultTimeout,
	}

	if ms := os.Getenv("OPENAI_TIMEOUT_MS"); ms != "" {
		n, err := strconv.Atoi(ms)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid OPENAI_TIMEOUT_MS value: %q", ms)
		}
		cfg.Timeout = time.Duration(n) * time.Millisecond
	}

	return cfg, nil
}
