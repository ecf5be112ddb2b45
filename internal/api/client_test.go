package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		// Trailing slash on purpose: the client must still produce
		// exactly one separator at the seam.
		BaseURL: srv.URL + "/",
		Timeout: 2 * time.Second,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client, srv
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
	}{
		{"empty", ""},
		{"no scheme", "127.0.0.1:8080"},
		{"garbage", "://nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(Config{BaseURL: tt.baseURL}, zerolog.Nop()); err == nil {
				t.Errorf("NewClient(%q) succeeded, want error", tt.baseURL)
			}
		})
	}
}

func TestClient_PathSeam(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(Wallet{})
	}))

	if _, err := client.Wallet(context.Background(), "12345"); err != nil {
		t.Fatalf("Wallet failed: %v", err)
	}
	if gotPath != "/users/QQ:12345/wallet" {
		t.Errorf("request path = %q, want %q", gotPath, "/users/QQ:12345/wallet")
	}
}

func TestClient_ErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"message field", `{"message":"user not found"}`, "user not found"},
		{"error field", `{"error":"no open session"}`, "no open session"},
		{"no message", `{"detail":42}`, ""},
		{"not json", `<html>oops</html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(tt.body))
			}))

			err := client.Login(context.Background(), "12345")
			if err == nil {
				t.Fatal("Login succeeded, want error")
			}

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error type = %T, want *api.Error", err)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
			if apiErr.StatusCode != http.StatusNotFound {
				t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
			}
		})
	}
}

func TestClient_RetriesGETOn5xx(t *testing.T) {
	attempts := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode([]ActiveUser{})
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL, Timeout: 2 * time.Second, Retries: 2}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if _, err := client.ListActive(context.Background()); err != nil {
		t.Fatalf("ListActive failed after retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestClient_NoRetryOnPOST(t *testing.T) {
	attempts := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL, Timeout: 2 * time.Second, Retries: 5}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if _, err := client.Logout(context.Background(), "12345"); err == nil {
		t.Fatal("Logout succeeded, want error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (POSTs are never retried)", attempts)
	}
}

func TestClient_RegisterBody(t *testing.T) {
	var got []map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))

	if err := client.Register(context.Background(), "54321"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("body entries = %d, want 1", len(got))
	}
	binds, ok := got[0]["binds"].([]any)
	if !ok || len(binds) != 1 {
		t.Fatalf("binds = %v, want one entry", got[0]["binds"])
	}
	bind := binds[0].(map[string]any)
	if bind["type"] != "QQ" || bind["bid"] != "54321" {
		t.Errorf("bind = %v, want type=QQ bid=54321", bind)
	}
}

func TestStripBind(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"QQ:12345", "12345"},
		{"12345", "12345"},
		{"telegram:99", "99"},
	}

	for _, tt := range tests {
		if got := StripBind(tt.in); got != tt.want {
			t.Errorf("StripBind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
