package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Get("/", s.handleHome)
	r.Post("/compare", s.handleCompare)
	r.Get("/leaderboard", s.handleLeaderboardPage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/cards", s.handleListCards)
		r.Post("/cards", s.handleCreateCard)
		r.Get("/cards/{id}", s.handleGetCard)
		r.Get("/cards/{id}/comparisons", s.handleCardHistory)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/pair", s.handlePair)
		r.Get("/comparisons", s.handleRecentComparisons)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.handleError(w, r, errNotFoundRoute(r))
	})
	return r
}
