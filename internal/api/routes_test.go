package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/onnwee/storefront-admin/internal/config"
	"github.com/onnwee/storefront-admin/internal/stats"
)

type fixedDashboard struct {
	snap stats.Snapshot
}

func (f fixedDashboard) Dashboard(ctx context.Context) (stats.Snapshot, error) {
	return f.snap, nil
}

// TestLiveStatsUpgradeThroughRouter dials the live stats socket through the
// fully assembled router, so the upgrade has to pass every installed
// middleware. A middleware wrapping the ResponseWriter without hijack
// support breaks the upgrade, which a handler-only test would never catch.
func TestLiveStatsUpgradeThroughRouter(t *testing.T) {
	os.Setenv("ADMIN_API_TOKEN", "test-token")
	os.Setenv("ENABLE_RATE_LIMIT", "false")
	config.ResetForTest()
	defer config.ResetForTest()
	cfg := config.Load()

	router := NewRouter(cfg, Deps{
		Stats: fixedDashboard{
			snap: stats.Snapshot{
				Count: stats.Counts{Revenue: 500, Product: 5, User: 2, Order: 3},
			},
		},
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/admin/stats/live"
	header := http.Header{
		"Authorization": {"Bearer test-token"},
		// Force the negotiating compression path too; upgrades must bypass it
		"Accept-Encoding": {"gzip"},
	}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial failed: %v (status %d)", err, status)
	}
	defer conn.Close()

	// The handler pushes a snapshot immediately on connect
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}

	var body struct {
		Type    string `json:"type"`
		Payload struct {
			Count struct {
				Revenue float64 `json:"revenue"`
			} `json:"count"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(msg, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Type != "stats" {
		t.Errorf("message type = %q, want stats", body.Type)
	}
	if body.Payload.Count.Revenue != 500 {
		t.Errorf("revenue = %v, want 500", body.Payload.Count.Revenue)
	}
}

// TestLiveStatsRequiresAuth confirms the socket sits behind the admin gate.
func TestLiveStatsRequiresAuth(t *testing.T) {
	os.Setenv("ADMIN_API_TOKEN", "test-token")
	os.Setenv("ENABLE_RATE_LIMIT", "false")
	config.ResetForTest()
	defer config.ResetForTest()
	cfg := config.Load()

	router := NewRouter(cfg, Deps{Stats: fixedDashboard{}})
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/admin/stats/live"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial without token to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Errorf("status = %d, want 401", status)
	}
}
