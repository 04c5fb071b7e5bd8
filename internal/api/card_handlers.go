package api

import (
	"net/http"

	"github.com/vytor/cardrank/internal/logger"
	"github.com/vytor/cardrank/internal/models"
)

type cardsResponse struct {
	Cards []models.CardResponse `json:"cards"`
}

type comparisonsResponse struct {
	Comparisons []models.Comparison `json:"comparisons"`
}

type createCardResponse struct {
	Success bool                `json:"success"`
	CardID  string              `json:"card_id"`
	Card    models.CardResponse `json:"card"`
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.CardService.ListCards(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cardsResponse{Cards: nonNilCards(cards)})
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	name := r.FormValue("name")
	log.Debug("create card request: name=%s", name)

	card, err := s.CardService.CreateCard(r.Context(), name, r.FormValue("image_url"), r.FormValue("description"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, createCardResponse{
		Success: true,
		CardID:  card.ID.String(),
		Card:    card.Response(),
	})
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := cardIDParam(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	card, err := s.CardService.GetCard(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card.Response())
}

func (s *Server) handleCardHistory(w http.ResponseWriter, r *http.Request) {
	id, err := cardIDParam(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	limit, err := parseLimit(r, maxHistoryLimit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	history, err := s.CardService.CardHistory(r.Context(), id, limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, comparisonsResponse{Comparisons: nonNilComparisons(history)})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, 0)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	cards, err := s.CardService.Leaderboard(r.Context(), limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cardsResponse{Cards: nonNilCards(cards)})
}

func (s *Server) handlePair(w http.ResponseWriter, r *http.Request) {
	pair, err := s.CardService.SamplePair(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, pair)
}

func (s *Server) handleRecentComparisons(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, maxHistoryLimit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if limit == 0 {
		limit = defaultComparisonLimit
	}

	comparisons, err := s.CardService.RecentComparisons(r.Context(), limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, comparisonsResponse{Comparisons: nonNilComparisons(comparisons)})
}

const defaultComparisonLimit = 50

func nonNilCards(cards []models.CardResponse) []models.CardResponse {
	if cards == nil {
		return []models.CardResponse{}
	}
	return cards
}

func nonNilComparisons(c []models.Comparison) []models.Comparison {
	if c == nil {
		return []models.Comparison{}
	}
	return c
}
