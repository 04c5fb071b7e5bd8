package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/cardrank/internal/errors"
	"github.com/vytor/cardrank/internal/logger"
	"github.com/vytor/cardrank/internal/models"
)

// maxHistoryLimit caps caller-supplied limits on the comparison log endpoints.
// The leaderboard is uncapped so a caller can ask for the whole population.
const maxHistoryLimit = 500

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// parseLimit reads ?limit=. Absent means 0, which the service treats as its default.
// A positive ceiling lowers larger values to it; 0 leaves them alone.
func parseLimit(r *http.Request, ceiling int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.NewBadRequestError("limit must be a non-negative integer")
	}
	if ceiling > 0 && n > ceiling {
		n = ceiling
	}
	return n, nil
}

func cardIDParam(r *http.Request) (models.CardID, error) {
	id, err := models.ParseCardID(chi.URLParam(r, "id"))
	if err != nil {
		return "", errors.NewBadRequestError("card id required")
	}
	return id, nil
}
