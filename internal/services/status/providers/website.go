package providers

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	perr "bgg/internal/platform/errors"
	"bgg/internal/services/status/domain"
)

// Website defaults
const (
	DefaultWebsiteTimeout     = 5 * time.Second
	DefaultWebsiteDesiredTime = 200 * time.Millisecond
)

// WebsiteOptions configures the website probe
type WebsiteOptions struct {
	URL         string
	Timeout     time.Duration // per request, 0 means DefaultWebsiteTimeout
	DesiredTime time.Duration // answers at or above this are SLOW
	AddHeaders  bool
	AddTime     bool

	// Client overrides the http client, mostly for tests
	Client *http.Client
}

// Website GETs a URL and grades the response time
type Website struct {
	url    string
	opts   WebsiteOptions
	client *http.Client
}

// NewWebsite validates the target URL
func NewWebsite(opts WebsiteOptions) (*Website, error) {
	u, err := url.ParseRequestURI(opts.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, perr.WithField(perr.InvalidArgf("invalid URL [%s] provided", opts.URL), "url")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultWebsiteTimeout
	}
	if opts.DesiredTime <= 0 {
		opts.DesiredTime = DefaultWebsiteDesiredTime
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Website{url: u.String(), opts: opts, client: client}, nil
}

// Status satisfies domain.Provider
// any answer counts as reachable, including 5xx; only transport failures are ERROR
func (w *Website) Status(ctx context.Context) domain.Result {
	return contain(ctx, NameWebsite, func(ctx context.Context) domain.Result {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.url, nil)
		if err != nil {
			return failed(ctx, NameWebsite, err)
		}

		start := time.Now()
		resp, err := w.client.Do(req)
		elapsed := time.Since(start)
		if err != nil {
			return failed(ctx, NameWebsite, err)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		status := domain.StatusOK
		if elapsed >= w.opts.DesiredTime {
			status = domain.StatusSlow
		}
		details := map[string]any{
			"response_code": resp.StatusCode,
			"reason":        http.StatusText(resp.StatusCode),
			"protocol":      strconv.Itoa(resp.ProtoMajor) + "." + strconv.Itoa(resp.ProtoMinor),
		}
		if w.opts.AddHeaders {
			headers := make(map[string]any, len(resp.Header))
			for k, v := range resp.Header {
				headers[k] = v
			}
			details["headers"] = headers
		}
		if w.opts.AddTime {
			details["response_time"] = elapsed.Seconds()
		}
		return domain.Result{Status: status, Details: details}
	})
}
