package nekoapi

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	errs "github.com/cacaonk0027/neekuro/pkg/errors"
	"github.com/cacaonk0027/neekuro/pkg/observability"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...ClientOption) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	opts = append([]ClientOption{WithBaseURL(server.URL), WithHTTPClient(server.Client())}, opts...)
	return NewClient(opts...)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient()
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), DefaultBaseURL)
	}
	if c.http == nil || c.http.Timeout != httpTimeout {
		t.Error("NewClient() should use the standard HTTP client")
	}
	if got := NewClient(WithBaseURL("http://api.test/sfw/")).BaseURL(); got != "http://api.test/sfw" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", got)
	}
}

func TestClientGetSendsHeaders(t *testing.T) {
	var auth, contentType, path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		auth = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		path = r.URL.RequestURI()
		json.NewEncoder(w).Encode(map[string]any{"code": 200})
	}, WithToken("mf3a-secret"))

	var resp GifResponse
	if err := c.Get(context.Background(), "/action?gif=hug", &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if auth != "mf3a-secret" {
		t.Errorf("Authorization = %q, want the raw token", auth)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
	if path != "/action?gif=hug" {
		t.Errorf("path = %q", path)
	}
	if resp.Code != 200 {
		t.Errorf("Code = %d, want 200", resp.Code)
	}
}

func TestClientReadsTokenPerRequest(t *testing.T) {
	var seen []string
	store := NewTokenStore("first")
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
	}, WithTokenSource(store))

	_ = c.Get(context.Background(), "/", nil)
	if err := store.SetToken("second"); err != nil {
		t.Fatal(err)
	}
	_ = c.Get(context.Background(), "/", nil)

	if len(seen) != 2 || seen[0] != "first" || seen[1] != "second" {
		t.Errorf("tokens sent = %v, want [first second]", seen)
	}
}

func TestClientGetErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"invalid token", http.StatusForbidden, `{"code":403}`, 403, errs.MsgTokenInvalid},
		{"missing token", http.StatusUnauthorized, `{"code":401}`, 401, errs.MsgTokenMissing},
		{"body message", http.StatusNotFound, `{"code":404,"message":"gif not found"}`, 404, "gif not found"},
		{"no body", http.StatusInternalServerError, ``, 500, "no description given"},
		{"status only 403", http.StatusForbidden, `not json`, 403, errs.MsgTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := c.Get(context.Background(), "/action?gif=hug", nil)
			var e *errs.Error
			if !stderrors.As(err, &e) || e.Code != errs.ErrCodeAPI {
				t.Fatalf("Get() error = %v, want API_ERROR", err)
			}
			if e.API.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", e.API.StatusCode, tt.wantStatus)
			}
			if e.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", e.Message, tt.wantMsg)
			}
			if e.API.Endpoint != "/action?gif=hug" {
				t.Errorf("Endpoint = %q", e.API.Endpoint)
			}
			if e.API.URL != c.BaseURL()+"/action?gif=hug" {
				t.Errorf("URL = %q", e.API.URL)
			}
		})
	}
}

func TestClientTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := server.URL
	server.Close()

	err := NewClient(WithBaseURL(base)).Get(context.Background(), "/reaction?gif=cry", nil)
	var e *errs.Error
	if !stderrors.As(err, &e) || e.Code != errs.ErrCodeAPI {
		t.Fatalf("Get() error = %v, want API_ERROR", err)
	}
	if e.API.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", e.API.StatusCode)
	}
	if e.API.URL != "unknown" {
		t.Errorf("URL = %q, want unknown", e.API.URL)
	}
}

func TestClientDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{broken"))
	})
	var resp GifResponse
	if err := c.Get(context.Background(), "/", &resp); !errs.Is(err, errs.ErrCodeAPI) {
		t.Errorf("Get() error = %v, want API_ERROR", err)
	}
}

type countingHooks struct {
	observability.NoopHTTPHooks
	requests, responses atomic.Int32
}

func (h *countingHooks) OnRequest(context.Context, string, string, string) { h.requests.Add(1) }
func (h *countingHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {
	h.responses.Add(1)
}

func TestClientHooks(t *testing.T) {
	hooks := &countingHooks{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, WithHooks(hooks))
	_ = c.Get(context.Background(), "/", nil)
	if hooks.requests.Load() != 1 || hooks.responses.Load() != 1 {
		t.Errorf("hooks saw %d requests, %d responses", hooks.requests.Load(), hooks.responses.Load())
	}
}
