package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cherdak-bot/internal/catalog"
	"cherdak-bot/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveMessage(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveMessage("idle", "ok")
	m.ObserveMessage("idle", "ok")
	m.ObserveMessage("awaiting_name", "invalid")

	if got := testutil.ToFloat64(m.messages.WithLabelValues("idle", "ok")); got != 2 {
		t.Errorf("idle/ok = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(m.messages); got != 2 {
		t.Errorf("series = %d, want 2", got)
	}
}

func TestInstrumentStore(t *testing.T) {
	m := New(prometheus.NewRegistry())
	store := InstrumentStore(storage.NewMemoryStorage(1), m)
	ctx := context.Background()

	if _, err := store.Insert(ctx, catalog.Tea, "Sencha", "", true); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := store.ListAll(ctx); err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	ok, err := store.IsAdmin(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("IsAdmin = %v, %v", ok, err)
	}

	if got := testutil.CollectAndCount(m.storeDuration); got != 3 {
		t.Errorf("observed ops = %d, want 3", got)
	}
}

func TestServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveSendError()

	srv := httptest.NewServer(NewServer(":0", reg).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/health status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "cherdak_send_errors_total 1") {
		t.Errorf("metrics output lacks send error counter:\n%s", body)
	}
}
