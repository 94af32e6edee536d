package postgrest

import (
	"testing"
	"time"

	"github.com/kupfer451/poke-api/internal/config"
)

func TestNewClientUsesConfig(t *testing.T) {
	cfg := &config.Config{StoreURL: "http://example.com", StoreAPIKey: "key", StoreTimeout: 3 * time.Second}
	store, err := newClient(clientParams{Config: cfg, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client, ok := store.(*Client)
	if !ok {
		t.Fatalf("expected *Client, got %T", store)
	}
	if client.httpClient.Timeout != 3*time.Second {
		t.Fatalf("expected configured timeout, got %v", client.httpClient.Timeout)
	}
}
