package web

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/rvanderp/campfinder/internal/campground"
)

type searchData struct {
	Query       string
	Campgrounds []*campground.Campground
}

// handleSearch matches campground names against the query,
// case-insensitively. Zero matches renders the empty state; it is
// never an error.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))

	var results []*campground.Campground
	if query != "" {
		var err error
		results, err = s.campgrounds.Search(query)
		if err != nil {
			slog.Error("searching campgrounds", "query", query, "err", err)
			s.flash.Add(w, r, flashError, "Something went wrong searching")
			http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
			return
		}
	}

	s.render(w, r, "search_results.html", searchData{Query: query, Campgrounds: results})
}
