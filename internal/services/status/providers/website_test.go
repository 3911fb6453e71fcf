package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "bgg/internal/platform/errors"
	"bgg/internal/services/status/domain"
)

func TestNewWebsite_ValidatesURL(t *testing.T) {
	t.Parallel()

	for _, u := range []string{"", "home", "ftp://example.com", "http://", "://nope"} {
		if _, err := NewWebsite(WebsiteOptions{URL: u}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("NewWebsite(%q) err = %v, want invalid_argument", u, err)
		}
	}
	if _, err := NewWebsite(WebsiteOptions{URL: "https://example.com/health"}); err != nil {
		t.Fatalf("valid URL rejected: %v", err)
	}
}

func TestWebsite_OKWithDetails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Probe", "yes")
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	p, err := NewWebsite(WebsiteOptions{
		URL: srv.URL, DesiredTime: time.Minute, AddHeaders: true, AddTime: true,
	})
	if err != nil {
		t.Fatalf("NewWebsite: %v", err)
	}
	got := p.Status(context.Background())

	if got.Status != domain.StatusOK {
		t.Fatalf("status = %q, want OK", got.Status)
	}
	if got.Details["response_code"] != http.StatusNoContent {
		t.Fatalf("response_code = %v", got.Details["response_code"])
	}
	if got.Details["reason"] != "No Content" || got.Details["protocol"] != "1.1" {
		t.Fatalf("details = %#v", got.Details)
	}
	headers, ok := got.Details["headers"].(map[string]any)
	if !ok {
		t.Fatalf("headers missing: %#v", got.Details)
	}
	if v, _ := headers["X-Probe"].([]string); len(v) != 1 || v[0] != "yes" {
		t.Fatalf("X-Probe = %#v", headers["X-Probe"])
	}
	if rt, ok := got.Details["response_time"].(float64); !ok || rt < 0 {
		t.Fatalf("response_time = %#v", got.Details["response_time"])
	}
}

func TestWebsite_SlowAndOptionalDetails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(20 * time.Millisecond)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	p, err := NewWebsite(WebsiteOptions{URL: srv.URL, DesiredTime: 5 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewWebsite: %v", err)
	}
	got := p.Status(context.Background())

	if got.Status != domain.StatusSlow {
		t.Fatalf("status = %q, want SLOW", got.Status)
	}
	if got.Details["response_code"] != http.StatusServiceUnavailable {
		t.Fatalf("response_code = %v", got.Details["response_code"])
	}
	if _, ok := got.Details["headers"]; ok {
		t.Fatalf("headers present without AddHeaders")
	}
	if _, ok := got.Details["response_time"]; ok {
		t.Fatalf("response_time present without AddTime")
	}
}

func TestWebsite_TransportFailureIsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p, err := NewWebsite(WebsiteOptions{URL: url, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewWebsite: %v", err)
	}
	if got := p.Status(context.Background()); got.Status != domain.StatusError || got.Details != nil {
		t.Fatalf("got %+v, want bare ERROR", got)
	}
}
