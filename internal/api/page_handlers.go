package api

import (
	"net/http"

	"github.com/vytor/cardrank/internal/errors"
	"github.com/vytor/cardrank/internal/logger"
	"github.com/vytor/cardrank/internal/models"
	"github.com/vytor/cardrank/internal/services"
)

type compareResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Comparison *models.Comparison `json:"comparison"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("rendering comparison page")

	count, err := s.CardService.CountCards(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if count < services.MinCardsForPair {
		log.Info("only %d cards available, showing error page", count)
		s.render(w, r, http.StatusOK, "error.html", pageData{
			"title":   "Not enough cards",
			"message": "Not enough cards in database. Please add at least 2 cards.",
		})
		return
	}

	pair, err := s.CardService.SamplePair(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "index.html", pageData{
		"title": "Which card is better?",
		"card1": pair.First,
		"card2": pair.Second,
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.handleError(w, r, errors.NewBadRequestError("invalid form body"))
		return
	}

	// Blank ids parse to the zero id, which RecordOutcome rejects with a validation error.
	winnerID, _ := models.ParseCardID(r.PostFormValue("winner_id"))
	loserID, _ := models.ParseCardID(r.PostFormValue("loser_id"))

	cmp, err := s.CardService.RecordOutcome(r.Context(), winnerID, loserID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, compareResponse{
		Success:    true,
		Message:    "Comparison recorded successfully",
		Comparison: cmp,
	})
}

func (s *Server) handleLeaderboardPage(w http.ResponseWriter, r *http.Request) {
	cards, err := s.CardService.Leaderboard(r.Context(), LeaderboardPageLimit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "leaderboard.html", pageData{
		"title": "Leaderboard",
		"cards": cards,
	})
}
