package workforce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRESTClient_FetchDailyRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/daily-stats" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Expected bearer token, got %q", got)
		}
		q := r.URL.Query()
		if q.Get("kind") != "trainer" || q.Get("project_id") != "3" {
			t.Errorf("Unexpected query: %v", q)
		}
		if q.Get("from") != "2026-03-01" || q.Get("to") != "2026-03-07" {
			t.Errorf("Unexpected date bounds: %v", q)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total": 2,
			"records": [
				{"entityId": "t-1", "date": "2026-03-01", "uniqueTasks": 5, "newTasks": 4, "reworkTasks": 1, "totalReviews": 3, "sumNumberOfTurns": 9, "rating": 4.0},
				{"entityId": "t-1", "date": "not-a-date"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIToken: "secret", RequestDelay: time.Millisecond})

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	records, err := client.FetchDailyRecords(context.Background(), KindTrainer, 3, &start, &end)
	if err != nil {
		t.Fatalf("FetchDailyRecords failed: %v", err)
	}

	// The malformed row is skipped, not fatal.
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].RatingSumWeighted != 12 || records[0].RatingWeight != 3 {
		t.Errorf("Weighted rating mapping wrong: %+v", records[0])
	}
}

func TestRESTClient_FetchAHTConfig_FallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, RequestDelay: time.Millisecond})
	cfg, err := client.FetchAHTConfig(context.Background(), 42)
	if err != nil {
		t.Fatalf("Expected fallback, got error: %v", err)
	}
	if cfg != DefaultAHT {
		t.Errorf("Expected default AHT, got %+v", cfg)
	}
}

func TestRESTClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, RequestDelay: time.Millisecond})
	if _, err := client.FetchHierarchy(context.Background()); err == nil {
		t.Fatal("Expected error for 500 response")
	}
}
