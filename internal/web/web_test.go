package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/simplyzetax/selva/internal/dashboard"
	"github.com/simplyzetax/selva/internal/models"
	"github.com/simplyzetax/selva/internal/proxy"
	"github.com/simplyzetax/selva/internal/upstream"
	"github.com/simplyzetax/selva/internal/views"
)

type reply struct {
	status      int
	contentType string
	body        string
}

type captured struct {
	method string
	path   string
	query  string
	auth   string
	body   string
}

// fakeUpstream answers canned replies keyed by "METHOD /path" and records what it received
type fakeUpstream struct {
	*httptest.Server

	mu       sync.Mutex
	replies  map[string]reply
	requests []captured
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{replies: map[string]reply{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeUpstream) on(method, path string, status int, body string) {
	f.onType(method, path, status, "application/json", body)
}

func (f *fakeUpstream) onType(method, path string, status int, contentType, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[method+" "+path] = reply{status: status, contentType: contentType, body: body}
}

func (f *fakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, captured{
		method: r.Method,
		path:   r.URL.Path,
		query:  r.URL.RawQuery,
		auth:   r.Header.Get("Authorization"),
		body:   string(b),
	})
	rep, ok := f.replies[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if rep.contentType != "" {
		w.Header().Set("Content-Type", rep.contentType)
	}
	w.WriteHeader(rep.status)
	w.Write([]byte(rep.body))
}

func (f *fakeUpstream) last(t *testing.T) captured {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "upstream was not called")
	return f.requests[len(f.requests)-1]
}

func (f *fakeUpstream) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newTestApp(t *testing.T, baseURL string) *fiber.App {
	t.Helper()
	engine, err := views.New(time.UTC)
	require.NoError(t, err)

	client := upstream.New(baseURL, time.Second, time.Second)
	forwarder := &proxy.Forwarder{BaseURL: baseURL, ReadTimeout: time.Second, WriteTimeout: time.Second}
	aggregator := dashboard.New(client, dashboard.Options{CacheSize: 8, CacheTTL: time.Hour, Location: time.UTC})

	app := fiber.New(fiber.Config{Views: engine})
	New(client, forwarder, aggregator, models.Info{Name: "selva", Version: "test"}).Register(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string, cookies ...*http.Cookie) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func jwt(token string) *http.Cookie {
	return &http.Cookie{Name: "jwt", Value: token}
}

func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(body), &out), body)
	return out
}
