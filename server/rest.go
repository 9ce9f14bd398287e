package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/umputun/newswire/pkg/domain"
	"github.com/umputun/newswire/pkg/scheduler"
)

const (
	defaultEntriesLimit = 100
	maxEntriesLimit     = 1000
)

// statusResponse is the store status with scheduler state
type statusResponse struct {
	domain.Status
	Running       bool   `json:"running"`
	Notifications bool   `json:"notifications"`
	Version       string `json:"version"`
}

// entriesHandler returns the latest entries across all feeds, ?limit=N
func (s *Server) entriesHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultEntriesLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			renderError(w, r, fmt.Errorf("invalid limit %q", v), http.StatusBadRequest)
			return
		}
		limit = min(max(n, 1), maxEntriesLimit)
	}

	entries, err := s.store.LatestEntries(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] failed to get latest entries: %v", err)
		renderError(w, r, errors.New("failed to get entries"), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []domain.LatestEntry{}
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"entries": entries, "count": len(entries)})
}

// categoriesHandler returns stored categories with feed counts
func (s *Server) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.Categories(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to get categories: %v", err)
		renderError(w, r, errors.New("failed to get categories"), http.StatusInternalServerError)
		return
	}
	if categories == nil {
		categories = []domain.CategorySummary{}
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"categories": categories})
}

// statusHandler returns store counters and scheduler state
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Status(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to get status: %v", err)
		renderError(w, r, errors.New("failed to get status"), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, statusResponse{
		Status:        st,
		Running:       s.scheduler.IsRunning(),
		Notifications: s.notifier.Active(),
		Version:       s.version,
	})
}

// forceFetchHandler runs an ingestion cycle and waits for its completion
func (s *Server) forceFetchHandler(w http.ResponseWriter, r *http.Request) {
	err := s.scheduler.ForceFetch(r.Context())
	switch {
	case errors.Is(err, scheduler.ErrNotRunning):
		renderError(w, r, err, http.StatusServiceUnavailable)
	case err != nil:
		renderError(w, r, scheduler.ErrCycleFailed, http.StatusInternalServerError)
	default:
		renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "message": "fetch completed"})
	}
}

// notifyTestHandler sends a test message to every configured sink
func (s *Server) notifyTestHandler(w http.ResponseWriter, r *http.Request) {
	res := s.notifier.SendTest(r.Context())
	renderJSON(w, r, http.StatusOK, res)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
