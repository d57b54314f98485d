// Package anthropic is a typed Go client for the Anthropic HTTP API.
//
// It covers message completion (blocking and streaming), model listing, and
// the organization admin endpoints (see the admin subpackage). All calls are
// stateless request/response; streaming responses are relayed as an ordered
// channel of typed events.
//
// Basic usage:
//
//	creds, err := anthropic.CredentialsFromEnv()
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := anthropic.NewClient(creds)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	req := anthropic.NewMessageRequest(
//		"claude-3-7-sonnet-20250219",
//		[]anthropic.Message{{
//			Role:    anthropic.RoleUser,
//			Content: anthropic.TextContent("Hello, Claude!"),
//		}},
//		1024,
//	)
//	resp, err := client.CreateMessage(context.Background(), req)
package anthropic

import (
	"fmt"
	"os"
	"strings"
)

// DefaultBaseURL is the API origin used when no override is configured.
const DefaultBaseURL = "https://api.anthropic.com/v1/"

// apiVersion is sent on every request in the anthropic-version header.
const apiVersion = "2023-06-01"

// Credentials holds the API key and base URL for an Anthropic-compatible API.
//
// Credentials are an explicit value: construct one with NewCredentials or, as
// an opt-in step at application startup, with CredentialsFromEnv, and pass it
// to NewClient. There is no process-wide default.
type Credentials struct {
	apiKey  string
	baseURL string
}

// NewCredentials creates credentials with the given API key and base URL.
// An empty baseURL selects DefaultBaseURL; otherwise the URL is normalized
// to end with a trailing slash.
func NewCredentials(apiKey, baseURL string) Credentials {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Credentials{
		apiKey:  apiKey,
		baseURL: normalizeBaseURL(baseURL),
	}
}

// CredentialsFromEnv reads credentials from the ANTHROPIC_API_KEY and
// ANTHROPIC_BASE_URL environment variables. ANTHROPIC_API_KEY is required;
// ANTHROPIC_BASE_URL falls back to DefaultBaseURL.
func CredentialsFromEnv() (Credentials, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return Credentials{}, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set: %w", ErrMissingAPIKey)
	}
	return NewCredentials(apiKey, os.Getenv("ANTHROPIC_BASE_URL")), nil
}

// APIKey returns the API key.
func (c Credentials) APIKey() string {
	return c.apiKey
}

// BaseURL returns the normalized base URL.
func (c Credentials) BaseURL() string {
	return c.baseURL
}

func normalizeBaseURL(u string) string {
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}
