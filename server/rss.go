package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/alertscope/pkg/feed"
)

const rssItemsLimit = 100

// rssHandler serves the stored alerts of a keyword as RSS feed
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.PathValue("keyword"))
	if keyword == "" {
		renderError(w, r, errors.New("keyword is required"), http.StatusBadRequest)
		return
	}

	alerts, err := s.alerts.ListAlerts(r.Context(), keyword, rssItemsLimit, 0)
	if err != nil {
		lgr.Printf("[WARN] failed to get alerts for RSS %q: %v", keyword, err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	rss, err := feed.NewGenerator(s.config.GetBaseURL()).GenerateRSS(alerts, keyword)
	if err != nil {
		lgr.Printf("[WARN] failed to generate RSS for %q: %v", keyword, err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	if _, err := w.Write([]byte(rss)); err != nil {
		lgr.Printf("[WARN] failed to write RSS response: %v", err)
	}
}
