package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"tush00nka/utransfer/internal/config"
	"tush00nka/utransfer/internal/handler"
	"tush00nka/utransfer/internal/pkg/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

type routesFunc func(router *mux.Router)

func (f routesFunc) RegisterRoutes(router *mux.Router) { f(router) }

func newTestServer(t *testing.T, cfg *config.Config, extra ...RouteRegistrar) *Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	system := handler.NewSystemHandler(func() int { return 0 }, func() int { return 0 }, "http://test.lan:5000")
	return NewServer(cfg, m, reg, append([]RouteRegistrar{system}, extra...)...)
}

func TestCORSPreflightRequest(t *testing.T) {
	server := newTestServer(t, &config.Config{StaticDir: t.TempDir()})

	// Create a test OPTIONS preflight request
	req := httptest.NewRequest("OPTIONS", "/upload", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	// Без ALLOWED_ORIGINS разрешены все
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %v, want *", got)
	}

	allowHeaders := rr.Header().Get("Access-Control-Allow-Headers")
	if allowHeaders == "" {
		t.Error("Access-Control-Allow-Headers should not be empty for OPTIONS request")
	}
}

func TestCORSWithActualRequest(t *testing.T) {
	server := newTestServer(t, &config.Config{StaticDir: t.TempDir()})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://example.com")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %v, want *", got)
	}
}

func TestCORSAllowedOrigins(t *testing.T) {
	server := newTestServer(t, &config.Config{StaticDir: t.TempDir(), AllowedOrigins: "http://share.lan"})

	tests := []struct {
		origin string
		want   string
	}{
		{origin: "http://share.lan", want: "http://share.lan"},
		{origin: "http://evil.example", want: ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("Origin", tt.origin)

		rr := httptest.NewRecorder()
		server.Handler().ServeHTTP(rr, req)

		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: Access-Control-Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	server := newTestServer(t, &config.Config{StaticDir: t.TempDir()})

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/ping", nil))

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID should be set")
	}
}

func TestRecoveryHandler(t *testing.T) {
	server := newTestServer(t, &config.Config{StaticDir: t.TempDir()}, routesFunc(func(router *mux.Router) {
		router.HandleFunc("/panic", func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})
	}))

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/panic", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}
