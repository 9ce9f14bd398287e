package server

import (
	"log"
	"net/http"

	"github.com/umputun/newswire/pkg/domain"
)

const rssEntriesLimit = 100

// rssHandler serves the latest entries as RSS, /rss/{category} limits it to one category
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")

	var entries []domain.LatestEntry
	var err error
	if category != "" {
		entries, err = s.store.CategoryEntries(r.Context(), category, rssEntriesLimit)
	} else {
		entries, err = s.store.LatestEntries(r.Context(), rssEntriesLimit)
	}
	if err != nil {
		log.Printf("[ERROR] failed to get entries for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	rss, err := s.generator.GenerateRSS(entries, category)
	if err != nil {
		log.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		log.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}

// opmlHandler serves the configured catalog as OPML subscription list
func (s *Server) opmlHandler(w http.ResponseWriter, _ *http.Request) {
	opml, err := s.generator.GenerateOPML(s.config.GetCatalog())
	if err != nil {
		log.Printf("[ERROR] failed to generate OPML: %v", err)
		http.Error(w, "Failed to generate OPML", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/x-opml; charset=utf-8")
	if _, err := w.Write([]byte(opml)); err != nil {
		log.Printf("[ERROR] failed to write OPML response: %v", err)
	}
}
