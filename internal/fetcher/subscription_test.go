package fetcher

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/kraklabs/sentinel2ingest/internal/tileset"
)

func newHandler(t *testing.T, allow *tileset.Allowlist) *SubscriptionHandler {
	t.Helper()
	return &SubscriptionHandler{
		Repo:          nil, // unreachable on every case exercised here
		Queue:         nil,
		Allowlist:     allow,
		Username:      "user",
		Password:      "pass",
		RecencyWindow: 30 * 24 * time.Hour,
	}
}

func TestSubscriptionHandlerUnauthorized(t *testing.T) {
	t.Parallel()

	h := newHandler(t, nil)
	req := httptest.NewRequest("POST", "/hooks/cdse", bytes.NewReader([]byte("{}")))
	req.SetBasicAuth("wrong", "creds")
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != 401 {
		t.Fatalf("status=%d want 401", rr.Code)
	}
}

func TestSubscriptionHandlerOldAcquisitionIsNoOp(t *testing.T) {
	t.Parallel()

	h := newHandler(t, nil)
	ev := pushEvent{ID: "A", BeginPosition: time.Now().Add(-60 * 24 * time.Hour)}
	body, _ := json.Marshal(ev)
	req := httptest.NewRequest("POST", "/hooks/cdse", bytes.NewReader(body))
	req.SetBasicAuth("user", "pass")
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status=%d want 200 (stale acquisition is a no-op, not an error)", rr.Code)
	}
}

func TestSubscriptionHandlerDisallowedTileIsNoOp(t *testing.T) {
	t.Parallel()

	allow, err := tileset.Load(writeTileFile(t, "31UFU"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	h := newHandler(t, allow)
	ev := pushEvent{ID: "A", BeginPosition: time.Now(), TileID: "99ZZZ"}
	body, _ := json.Marshal(ev)
	req := httptest.NewRequest("POST", "/hooks/cdse", bytes.NewReader(body))
	req.SetBasicAuth("user", "pass")
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status=%d want 200 (non-allowlisted tile is a no-op, not an error)", rr.Code)
	}
}

func TestSubscriptionHandlerMalformedPayload(t *testing.T) {
	t.Parallel()

	h := newHandler(t, nil)
	req := httptest.NewRequest("POST", "/hooks/cdse", bytes.NewReader([]byte("not json")))
	req.SetBasicAuth("user", "pass")
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != 400 {
		t.Fatalf("status=%d want 400", rr.Code)
	}
}

func writeTileFile(t *testing.T, tiles ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := dir + "/tiles.txt"
	content := ""
	for _, tile := range tiles {
		content += tile + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}
