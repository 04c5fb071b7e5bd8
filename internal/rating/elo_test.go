package rating_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/cardrank/internal/rating"
)

const epsilon = 1e-9

func TestExpected(t *testing.T) {
	tests := []struct {
		name     string
		r        float64
		opponent float64
		expected float64
	}{
		{name: "equal ratings are a coin flip", r: 1200, opponent: 1200, expected: 0.5},
		{name: "400 points ahead wins ten to one", r: 1600, opponent: 1200, expected: 10.0 / 11.0},
		{name: "400 points behind", r: 1200, opponent: 1600, expected: 1.0 / 11.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, rating.Expected(tt.r, tt.opponent), epsilon)
		})
	}
}

func TestExpected_SumsToOne(t *testing.T) {
	pairs := [][2]float64{{1200, 1200}, {1400, 1000}, {-50, 3000}, {0, 0}}
	for _, p := range pairs {
		assert.InDelta(t, 1.0, rating.Expected(p[0], p[1])+rating.Expected(p[1], p[0]), epsilon)
	}
}

func TestUpdate_EqualRatings(t *testing.T) {
	newA, newB := rating.Update(1200, 1200)

	assert.InDelta(t, 1216.0, newA, epsilon)
	assert.InDelta(t, 1184.0, newB, epsilon)
}

func TestUpdate_Symmetry(t *testing.T) {
	for _, r := range []float64{0, 800, 1200, 2500, -100} {
		newW, newL := rating.Update(r, r)

		assert.Greater(t, newW, r, "winner should gain")
		assert.Less(t, newL, r, "loser should lose")
		assert.InDelta(t, newW-r, r-newL, epsilon, "gain and loss should match")
		assert.InDelta(t, rating.K/2, newW-r, epsilon)
	}
}

func TestUpdate_FavouriteWins(t *testing.T) {
	newA, newB := rating.Update(1400, 1000)

	deltaA := newA - 1400
	deltaB := newB - 1000
	assert.Greater(t, deltaA, 0.0)
	assert.Less(t, deltaA, 16.0, "expected win should earn less than half of K")
	assert.Less(t, deltaB, 0.0)
	assert.Greater(t, deltaB, -16.0)
}

func TestUpdate_Upset(t *testing.T) {
	newA, newB := rating.Update(1000, 1400)

	deltaA := newA - 1000
	deltaB := newB - 1400
	assert.Greater(t, deltaA, 16.0, "upset should earn more than half of K")
	assert.LessOrEqual(t, deltaA, rating.K)
	assert.Less(t, deltaB, -16.0)
	assert.GreaterOrEqual(t, deltaB, -rating.K)
}

func TestUpdate_ZeroSum(t *testing.T) {
	newW, newL := rating.Update(1530.5, 1187.25)
	assert.InDelta(t, 1530.5+1187.25, newW+newL, epsilon)
}

func TestUpdate_DiminishingReturns(t *testing.T) {
	opponent := 1200.0
	prevGain := rating.K
	for _, r := range []float64{800, 1000, 1200, 1400, 1600, 2000} {
		if r > opponent {
			assert.Greater(t, rating.Expected(r, opponent), 0.5, "favourite should be expected to win")
		}
		newW, _ := rating.Update(r, opponent)
		gain := newW - r
		assert.Less(t, gain, prevGain, "higher rated winner should gain less (rating %v)", r)
		assert.Greater(t, gain, 0.0)
		prevGain = gain
	}
}

func TestUpdate_NoFloor(t *testing.T) {
	_, newL := rating.Update(10, 5)
	assert.Less(t, newL, 0.0, "ratings may go negative")
}
