package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()
	e := GuessEvaluator{}

	testCases := []struct {
		guess  string
		secret string
		match  bool
	}{
		{"dog", "dog", true},
		{"DOG", "dog", true},
		{" dog ", "dog", true},
		{"\tDoG\n", "dog", true},
		{"dog", " DOG ", true},
		{"dogs", "dog", false},
		{"do g", "dog", false},
		{"", "dog", false},
		{"ice cream", "ice cream", true},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.match, e.Evaluate(tc.guess, tc.secret), "guess=%q secret=%q", tc.guess, tc.secret)
	}
}

func TestGuesserDelta(t *testing.T) {
	t.Parallel()
	e := GuessEvaluator{}
	round := 60 * time.Second

	testCases := []struct {
		desc      string
		remaining time.Duration
		expected  int
	}{
		{"instant answer gets the full bonus", 60 * time.Second, 300},
		{"half time gets half the bonus", 30 * time.Second, 200},
		{"last moment gets only the base", 0, 100},
		{"negative remaining is clamped", -5 * time.Second, 100},
		{"remaining above the round is clamped", 90 * time.Second, 300},
		{"bonus is floored", 45 * time.Second, 250},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, e.GuesserDelta(tc.remaining, round), tc.desc)
	}

	assert.Equal(t, GUESS_BASE_SCORE, e.GuesserDelta(time.Second, 0), "degenerate round duration")
}

func TestDrawerDelta(t *testing.T) {
	t.Parallel()
	assert.Equal(t, DRAWER_BONUS, GuessEvaluator{}.DrawerDelta())
}
