package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/repository"
)

type row struct {
	ID   string `json:"id"`
	Name string `json:"product_name"`
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, "secret-key", time.Second, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewClientValidates(t *testing.T) {
	if _, err := NewClient("://bad-url", "key", 0, testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewClient("/relative", "key", 0, testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
	if _, err := NewClient("http://store", "", 0, testLogger()); err == nil {
		t.Fatal("expected error for missing api key")
	}
	client, err := NewClient("http://store", "key", 0, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.httpClient.Timeout != defaultTimeout {
		t.Fatalf("expected default timeout, got %v", client.httpClient.Timeout)
	}
}

func TestFetchFilteredSendsHeadersAndQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/rest/v1/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("apikey"); got != "secret-key" {
			t.Errorf("unexpected apikey header %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if got := r.URL.Query().Get("id"); got != "in.(a,b)" {
			t.Errorf("unexpected id filter %q", got)
		}
		if got := r.URL.Query().Get("product_name"); got != "ilike.*pika*" {
			t.Errorf("unexpected name filter %q", got)
		}
		_, _ = w.Write([]byte(`[{"id":"a","product_name":"Pikachu"}]`))
	})

	var rows []row
	err := client.FetchFiltered(context.Background(), repository.TableProducts, &rows,
		repository.In("id", "a", "b"),
		repository.ILike("product_name", "pika"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Pikachu" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestFetchByIDEmptyIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "eq.missing" {
			t.Errorf("unexpected id filter %q", got)
		}
		_, _ = w.Write([]byte(`[]`))
	})

	var rows []row
	if err := client.FetchByID(context.Background(), repository.TableOrders, "missing", &rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestInsertAndUpdateEchoRepresentation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Prefer"); got != "return=representation" {
			t.Errorf("unexpected prefer header %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`[{"id":"new","product_name":"` + body["product_name"].(string) + `"}]`))
		case http.MethodPatch:
			if got := r.URL.Query().Get("id"); got != "eq.new" {
				t.Errorf("unexpected id filter %q", got)
			}
			_, _ = w.Write([]byte(`[{"id":"new","product_name":"` + body["product_name"].(string) + `"}]`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	var created []row
	if err := client.Insert(context.Background(), repository.TableProducts, map[string]string{"product_name": "Eevee"}, &created); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if len(created) != 1 || created[0].ID != "new" {
		t.Fatalf("unexpected insert echo %+v", created)
	}

	var updated []row
	if err := client.Update(context.Background(), repository.TableProducts, "new", map[string]string{"product_name": "Vaporeon"}, &updated); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(updated) != 1 || updated[0].Name != "Vaporeon" {
		t.Fatalf("unexpected update echo %+v", updated)
	}
}

func TestDeleteRequiresFilter(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		if got := r.URL.Query().Get("order_id"); got != "eq.o-1" {
			t.Errorf("unexpected filter %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.Delete(context.Background(), repository.TableOrderItems); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error for unfiltered delete, got %v", err)
	}
	if called {
		t.Fatal("unfiltered delete must not reach the store")
	}

	if err := client.Delete(context.Background(), repository.TableOrderItems, repository.Eq("order_id", "o-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected delete request")
	}
}

func TestNonSuccessStatusIsPersistenceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad column"}`))
	})

	var rows []row
	err := client.FetchAll(context.Background(), repository.TableUsers, &rows)
	if !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestConflictIsAlreadyExists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"23505"}`))
	})

	var rows []row
	err := client.Insert(context.Background(), repository.TableUsers, map[string]string{"email": "a@b.c"}, &rows)
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists error, got %v", err)
	}
}

func TestUndecodableBodyIsPersistenceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	var rows []row
	err := client.FetchAll(context.Background(), repository.TableUsers, &rows)
	if !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestTransportFailureIsPersistenceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewClient(url, "key", time.Second, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	var rows []row
	err = client.FetchAll(context.Background(), repository.TableUsers, &rows)
	if !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestCancelledContextPropagates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var rows []row
	err := client.FetchAll(ctx, repository.TableUsers, &rows)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
	if !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestEndpointKeepsBasePath(t *testing.T) {
	client, err := NewClient("https://project.supabase.co/base", "key", 0, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := client.endpoint("orders", []repository.Filter{repository.Eq("user_id", "u1")})
	want := "https://project.supabase.co/base/rest/v1/orders?user_id=eq.u1"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
