package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"leadradar/internal/store"
	"leadradar/pkg/pipeline"
)

// Server provides the HTTP API.
type Server struct {
	store     store.Store
	discovery *pipeline.Discovery
	ingestor  *pipeline.Ingestor
	port      int
}

// New creates a new HTTP server.
func New(s store.Store, discovery *pipeline.Discovery, ingestor *pipeline.Ingestor, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		store:     s,
		discovery: discovery,
		ingestor:  ingestor,
		port:      port,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("leadradar server listening on %s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Handler builds the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/suggestions", s.handleSuggestions)
	mux.HandleFunc("/api/v1/suggestions/monitor", s.handleMonitorToggle)
	mux.HandleFunc("/api/v1/leads", s.handleLeads)
	mux.HandleFunc("/api/v1/tweets", s.handleTweets)
	mux.HandleFunc("/api/v1/discover", s.handleDiscover)
	mux.HandleFunc("/api/v1/ingest", s.handleIngest)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	productID := r.URL.Query().Get("product")
	if productID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product parameter required"})
		return
	}

	suggestions, err := s.store.ListSuggestions(r.Context(), productID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  suggestions,
		"count": len(suggestions),
	})
}

func (s *Server) handleMonitorToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		ID        string `json:"id"`
		Monitored bool   `json:"monitored"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id required"})
		return
	}

	if err := s.store.SetSuggestionMonitored(r.Context(), req.ID, req.Monitored); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": req.ID, "monitored": req.Monitored})
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	productID := r.URL.Query().Get("product")
	if productID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product parameter required"})
		return
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	posts, err := s.store.ListPosts(r.Context(), productID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  posts,
		"count": len(posts),
	})
}

func (s *Server) handleTweets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	productID := r.URL.Query().Get("product")
	if productID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product parameter required"})
		return
	}

	tweets, err := s.store.ListTweets(r.Context(), productID, 100)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  tweets,
		"count": len(tweets),
	})
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if s.discovery == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "discovery not configured"})
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_id required"})
		return
	}

	res, err := s.discovery.Discover(r.Context(), req.ProductID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if s.ingestor == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "ingestion not configured"})
		return
	}

	var req struct {
		ProductID  string   `json:"product_id"`
		Subreddits []string `json:"subreddits"`
		Limit      int      `json:"limit"`
		Tweets     bool     `json:"tweets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_id required"})
		return
	}

	ctx := r.Context()
	if len(req.Subreddits) == 0 {
		monitored, err := s.store.ListMonitoredSubreddits(ctx, req.ProductID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		req.Subreddits = monitored
	}

	var res *pipeline.IngestResult
	var err error
	if req.Tweets {
		res, err = s.ingestor.IngestTweets(ctx, req.ProductID, req.Limit)
	} else {
		res, err = s.ingestor.IngestPosts(ctx, req.ProductID, req.Subreddits, req.Limit)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
