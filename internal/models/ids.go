package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CardID identifies a card. It is opaque outside the store that assigned it.
type CardID string

// ComparisonID identifies a recorded comparison.
type ComparisonID string

// NewCardID returns a fresh random card identifier.
func NewCardID() CardID {
	return CardID(uuid.NewString())
}

// NewComparisonID returns a fresh random comparison identifier.
func NewComparisonID() ComparisonID {
	return ComparisonID(uuid.NewString())
}

// ParseCardID validates the boundary representation of a card identifier.
func ParseCardID(s string) (CardID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("card id is empty")
	}
	return CardID(s), nil
}

func (id CardID) String() string { return string(id) }

// IsZero reports whether the identifier is unset.
func (id CardID) IsZero() bool { return id == "" }

func (id ComparisonID) String() string { return string(id) }

func (id ComparisonID) IsZero() bool { return id == "" }
