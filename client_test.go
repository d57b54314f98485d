package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewCredentials_BaseURLNormalization(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"empty selects default", "", DefaultBaseURL},
		{"trailing slash kept", "https://example.com/v1/", "https://example.com/v1/"},
		{"trailing slash added", "https://example.com/v1", "https://example.com/v1/"},
		{"bare origin", "http://localhost:8080", "http://localhost:8080/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := NewCredentials("sk-ant-test", tt.baseURL)
			if creds.BaseURL() != tt.want {
				t.Errorf("BaseURL() = %q, want %q", creds.BaseURL(), tt.want)
			}
		})
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Run("key and base URL set", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")
		t.Setenv("ANTHROPIC_BASE_URL", "https://proxy.example.com/v1")

		creds, err := CredentialsFromEnv()
		if err != nil {
			t.Fatalf("CredentialsFromEnv() error = %v", err)
		}
		if creds.APIKey() != "sk-ant-env" {
			t.Errorf("APIKey() = %q", creds.APIKey())
		}
		if creds.BaseURL() != "https://proxy.example.com/v1/" {
			t.Errorf("BaseURL() = %q", creds.BaseURL())
		}
	})

	t.Run("base URL defaults", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")
		t.Setenv("ANTHROPIC_BASE_URL", "")

		creds, err := CredentialsFromEnv()
		if err != nil {
			t.Fatalf("CredentialsFromEnv() error = %v", err)
		}
		if creds.BaseURL() != DefaultBaseURL {
			t.Errorf("BaseURL() = %q, want default", creds.BaseURL())
		}
	})

	t.Run("missing key", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "")

		_, err := CredentialsFromEnv()
		if !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("error = %v, want ErrMissingAPIKey", err)
		}
	})
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(NewCredentials("", ""))
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("error = %v, want ErrMissingAPIKey", err)
	}
}

func TestClient_StandardHeaders(t *testing.T) {
	var got http.Header
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"msg_h","type":"message","model":"m","role":"assistant","content":[],"usage":{"input_tokens":1,"output_tokens":1}}`)
	})

	if _, err := client.CreateMessage(context.Background(), streamRequest()); err != nil {
		t.Fatalf("CreateMessage() error = %v", err)
	}

	if got.Get("x-api-key") != "sk-ant-test" {
		t.Errorf("x-api-key = %q, want sk-ant-test", got.Get("x-api-key"))
	}
	if got.Get("anthropic-version") != "2023-06-01" {
		t.Errorf("anthropic-version = %q, want 2023-06-01", got.Get("anthropic-version"))
	}
	if got.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got.Get("Content-Type"))
	}
}

func TestClient_Credentials(t *testing.T) {
	creds := NewCredentials("sk-ant-test", "http://localhost:1234")
	client, err := NewClient(creds)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.Credentials() != creds {
		t.Errorf("Credentials() = %+v, want %+v", client.Credentials(), creds)
	}
}
