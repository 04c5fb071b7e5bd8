package api

import (
	"html/template"
	"net/http"

	"github.com/vytor/cardrank/internal/logger"
	"github.com/vytor/cardrank/internal/services"
)

// LeaderboardPageLimit is how many cards the HTML leaderboard shows.
const LeaderboardPageLimit = 50

type Server struct {
	CardService services.CardService
	Templates   *template.Template
}

type pageData map[string]any

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}

	log := logger.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
	}
}
