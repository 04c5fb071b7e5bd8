package rating

import "math"

const (
	// K is the most rating a single comparison can move.
	K = 32.0
	// Deviation is the rating gap at which the favourite is expected to win ten times as often.
	Deviation = 400.0
)

// Expected returns the probability that a card rated r beats a card rated opponent.
func Expected(r, opponent float64) float64 {
	return 1 / (1 + math.Pow(10, (opponent-r)/Deviation))
}

// Update applies one outcome and returns the new winner and loser ratings.
// There is no floor; ratings may go negative.
func Update(winner, loser float64) (newWinner, newLoser float64) {
	expectedWinner := Expected(winner, loser)
	expectedLoser := Expected(loser, winner)

	newWinner = winner + K*(1-expectedWinner)
	newLoser = loser + K*(0-expectedLoser)
	return newWinner, newLoser
}
