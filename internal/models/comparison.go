package models

import "time"

// Comparison is one recorded outcome. Records are append-only.
type Comparison struct {
	ID              ComparisonID `json:"id" bson:"_id"`
	WinnerID        CardID       `json:"winner_id" bson:"winner_id"`
	LoserID         CardID       `json:"loser_id" bson:"loser_id"`
	WinnerOldRating float64      `json:"winner_old_rating" bson:"winner_old_rating"`
	LoserOldRating  float64      `json:"loser_old_rating" bson:"loser_old_rating"`
	WinnerNewRating float64      `json:"winner_new_rating" bson:"winner_new_rating"`
	LoserNewRating  float64      `json:"loser_new_rating" bson:"loser_new_rating"`
	CreatedAt       time.Time    `json:"created_at" bson:"created_at"`
	SchemaVersion   int          `json:"-" bson:"schema_version"`
}

// WinnerDelta is the rating change applied to the winner.
func (c Comparison) WinnerDelta() float64 {
	return c.WinnerNewRating - c.WinnerOldRating
}

// LoserDelta is the rating change applied to the loser. It is never positive.
func (c Comparison) LoserDelta() float64 {
	return c.LoserNewRating - c.LoserOldRating
}
