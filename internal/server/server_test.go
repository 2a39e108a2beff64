package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tailscale.com/client/tailscale/apitype"
	"tailscale.com/tailcfg"
)

func newTestServer(t *testing.T) (*Server, *int) {
	t.Helper()
	hits := new(int)
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.WriteHeader(http.StatusAccepted)
	})
	return New(mcpHandler, "k3y", "1.2.3", slog.New(slog.NewTextHandler(io.Discard, nil))), hits
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] != "1.2.3" {
		t.Errorf("body = %v", body)
	}
}

func TestMCPRequiresAPIKey(t *testing.T) {
	srv, hits := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer k3y")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Errorf("with key: status = %d, want 202", rec.Code)
	}
	if *hits != 1 {
		t.Errorf("mcp handler hits = %d, want 1", *hits)
	}
}

func TestMCPPreflightSkipsAuth(t *testing.T) {
	srv, hits := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/mcp", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if *hits != 0 {
		t.Errorf("mcp handler hits = %d, want 0", *hits)
	}
}

func TestServerUsesTailscaleIdentity(t *testing.T) {
	srv, _ := newTestServer(t)
	lc := &fakeWhoIs{resp: &apitype.WhoIsResponse{UserProfile: &tailcfg.UserProfile{LoginName: "bob@example.com"}}}
	srv.SetTailscale(lc)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "100.100.1.2:5555"
	srv.ServeHTTP(httptest.NewRecorder(), req)

	if lc.addr != "100.100.1.2:5555" {
		t.Errorf("WhoIs not consulted, addr = %q", lc.addr)
	}
}
