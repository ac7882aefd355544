package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"leadradar/internal/store"
	"leadradar/pkg/lead"
)

func setupServer(t *testing.T) (*Server, *store.SQLiteStore) {
	t.Helper()
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	p := &lead.Product{
		ID:          "prod-1",
		Name:        "BestCRM",
		Description: "a crm for small sales teams",
		Keywords:    []string{"crm", "sales"},
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.SaveProduct(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	return New(s, nil, nil, 0), s
}

func do(t *testing.T, srv *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := setupServer(t)
	rec := do(t, srv, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSuggestionsEndpoint(t *testing.T) {
	srv, s := setupServer(t)
	ctx := context.Background()

	rec := do(t, srv, http.MethodGet, "/api/v1/suggestions", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing product: status = %d, want 400", rec.Code)
	}

	now := time.Now().UTC()
	id := uuid.NewString()
	_, err := s.InsertSuggestions(ctx, []lead.SubredditSuggestion{
		{ID: id, ProductID: "prod-1", Name: "saas", RelevanceScore: 90, CreatedAt: now, UpdatedAt: now},
	})
	if err != nil {
		t.Fatal(err)
	}

	rec = do(t, srv, http.MethodGet, "/api/v1/suggestions?product=prod-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 {
		t.Errorf("count = %d, want 1", resp.Count)
	}

	// Toggle monitoring through the API.
	rec = do(t, srv, http.MethodPost, "/api/v1/suggestions/monitor", map[string]any{"id": id, "monitored": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d: %s", rec.Code, rec.Body.String())
	}
	names, err := s.ListMonitoredSubreddits(ctx, "prod-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "saas" {
		t.Errorf("monitored = %v", names)
	}

	rec = do(t, srv, http.MethodPost, "/api/v1/suggestions/monitor", map[string]any{"id": "missing", "monitored": true})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", rec.Code)
	}
}

func TestLeadsEndpoint(t *testing.T) {
	srv, s := setupServer(t)
	ctx := context.Background()

	_, err := s.InsertPosts(ctx, []lead.Post{{
		ID:         uuid.NewString(),
		ProductID:  "prod-1",
		ExternalID: "a1",
		Title:      "need a crm",
		Subreddit:  "saas",
		Lead:       50,
		Engagement: lead.EngagementUnseen,
		PostedAt:   time.Now().UTC(),
		CreatedAt:  time.Now().UTC(),
	}})
	if err != nil {
		t.Fatal(err)
	}

	rec := do(t, srv, http.MethodGet, "/api/v1/leads?product=prod-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Count int         `json:"count"`
		Data  []lead.Post `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Data[0].ExternalID != "a1" {
		t.Errorf("resp = %+v", resp)
	}

	rec = do(t, srv, http.MethodDelete, "/api/v1/leads?product=prod-1", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method: status = %d, want 405", rec.Code)
	}
}

func TestDiscoverNotConfigured(t *testing.T) {
	srv, _ := setupServer(t)
	rec := do(t, srv, http.MethodPost, "/api/v1/discover", map[string]string{"product_id": "prod-1"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
