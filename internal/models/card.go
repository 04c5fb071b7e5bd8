package models

import (
	"strings"
	"time"
)

const (
	// DefaultRating is the rating every new card starts from.
	DefaultRating = 1200.0
	// DefaultDescription is stored when a card is created without one.
	DefaultDescription = "No description available"
	// SchemaVersion is written on every card and comparison record.
	SchemaVersion = 1
)

type Card struct {
	ID            CardID    `json:"id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	ImageURL      string    `json:"image_url" bson:"image_url"`
	Description   string    `json:"description" bson:"description"`
	Rating        float64   `json:"rating" bson:"rating"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	SchemaVersion int       `json:"-" bson:"schema_version"`
}

// NewCard builds a card with every field defaulted. The ID is left for the store to assign.
func NewCard(name, imageURL, description string, now time.Time) Card {
	description = strings.TrimSpace(description)
	if description == "" {
		description = DefaultDescription
	}
	return Card{
		Name:          strings.TrimSpace(name),
		ImageURL:      strings.TrimSpace(imageURL),
		Description:   description,
		Rating:        DefaultRating,
		CreatedAt:     now.UTC(),
		SchemaVersion: SchemaVersion,
	}
}

// CardResponse is the external view of a card.
type CardResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description"`
	Rating      float64   `json:"elo_rating"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c Card) Response() CardResponse {
	return CardResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		ImageURL:    c.ImageURL,
		Description: c.Description,
		Rating:      c.Rating,
		CreatedAt:   c.CreatedAt,
	}
}

// CardResponses projects a slice of cards, preserving order.
func CardResponses(cards []Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Response())
	}
	return out
}

// CardPair is an unordered pair of distinct cards presented for comparison.
type CardPair struct {
	First  CardResponse `json:"card1"`
	Second CardResponse `json:"card2"`
}
