package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestSearchSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("$skip") != "100" {
			t.Errorf("$skip=%s want 100", r.URL.Query().Get("$skip"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SearchPage{
			Value:      []Product{{ID: "A", Name: "a.zip", TileID: "31UFU"}},
			TotalCount: 1,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	page, err := c.Search(context.Background(), SearchParams{
		Date:     time.Date(2025, 1, 27, 0, 0, 0, 0, time.UTC),
		Platform: "S2B",
		Skip:     100,
		Top:      100,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.TotalCount != 1 || len(page.Value) != 1 || page.Value[0].ID != "A" {
		t.Fatalf("page=%+v", page)
	}
}

func TestSearchFourXXIsFatal(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Search(context.Background(), SearchParams{Date: time.Now(), Platform: "S2A", Top: 100})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("calls=%d want 1 (4xx must not be retried)", calls)
	}
}

func TestSearchRetriesFiveXX(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SearchPage{Value: []Product{}, TotalCount: 0})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	page, err := c.Search(context.Background(), SearchParams{Date: time.Now(), Platform: "S2A", Top: 100})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("calls=%d want 2 (one retry after 5xx)", calls)
	}
	if len(page.Value) != 0 {
		t.Fatalf("page.Value=%v want empty", page.Value)
	}
}
